package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/persistorai/mindmap/internal/models"
)

// executeArgs runs the given root command with args and returns any error.
// It suppresses cobra's usage/error output so test output stays clean.
func executeArgs(t *testing.T, root *cobra.Command, args ...string) error {
	t.Helper()
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return err
}

// stubRun replaces every subcommand's RunE so only argument validation runs.
func stubRun(root *cobra.Command) *cobra.Command {
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {}
	for _, c := range root.Commands() {
		c.RunE = func(cmd *cobra.Command, args []string) error { return nil }
	}
	return root
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"graph takes no args", []string{"graph", "extra"}, true},
		{"graph", []string{"graph"}, false},
		{"add requires keyword", []string{"add"}, true},
		{"add multi-word keyword", []string{"add", "machine", "learning"}, false},
		{"export requires id", []string{"export"}, true},
		{"export one id", []string{"export", "42"}, false},
		{"export two ids", []string{"export", "1", "2"}, true},
		{"delete requires id", []string{"delete"}, true},
		{"delete with yes flag", []string{"delete", "42", "--yes"}, false},
		{"unknown flag", []string{"graph", "--bogus"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			err := executeArgs(t, stubRun(newRootCmd()), tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("args %v: err=%v, wantErr=%v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestDeleteRefusesRoot(t *testing.T) {
	isolate(t)

	err := executeArgs(t, newRootCmd(), "delete", "1", "--yes", "--url", "http://127.0.0.1:1/api")
	if !errors.Is(err, models.ErrReservedRoot) {
		t.Errorf("expected ErrReservedRoot, got %v", err)
	}
}

func TestInvalidNodeID(t *testing.T) {
	isolate(t)

	for _, cmd := range []string{"export", "delete"} {
		err := executeArgs(t, newRootCmd(), cmd, "abc", "--url", "http://127.0.0.1:1/api")
		if !errors.Is(err, models.ErrInvalidNodeID) {
			t.Errorf("%s: expected ErrInvalidNodeID, got %v", cmd, err)
		}
	}
}

func TestAddRejectsBlankKeyword(t *testing.T) {
	isolate(t)

	err := executeArgs(t, newRootCmd(), "add", "   ", "--url", "http://127.0.0.1:1/api")
	if !errors.Is(err, models.ErrEmptyKeyword) {
		t.Errorf("expected ErrEmptyKeyword, got %v", err)
	}
}
