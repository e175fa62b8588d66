package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"logviewer/internal/auth/credentials"
)

// printHash reads a password from in and writes its bcrypt hash to out.
// A terminal gets a no-echo prompt on prompt; anything else is read as a
// single line.
func printHash(in *os.File, out, prompt io.Writer) error {
	password, err := readPassword(in, prompt)
	if err != nil {
		return err
	}

	hash, err := credentials.HashPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, hash)
	return err
}

func readPassword(in *os.File, prompt io.Writer) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return readLine(in)
	}

	fmt.Fprint(prompt, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
