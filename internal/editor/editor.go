// Package editor lets the user write sql in $EDITOR.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const instructionPrefix = "-- pamdb:"

// Command returns $EDITOR, or vim when it is unset.
func Command() string {
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return "vim"
}

// Header builds the instruction comment placed above the sql.
func Header(lines ...string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(instructionPrefix)
		b.WriteString(" ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString(instructionPrefix + " save and exit to continue, leave empty to cancel\n\n")
	return b.String()
}

// Edit opens initial, prefixed by header, in the editor and returns what
// the user saved with the header removed.
func Edit(header, initial string) (string, error) {
	tmp, err := os.CreateTemp("", "pamdb-*.sql")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.WriteString(header + initial); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	parts := strings.Fields(Command())
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run editor: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return StripInstructions(string(data)), nil
}

// StripInstructions drops the instruction lines written by Header and
// trims the rest.
func StripInstructions(content string) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), instructionPrefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
