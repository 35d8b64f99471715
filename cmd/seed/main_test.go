package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"backend-cuisinequest/internal/auth"
	"backend-cuisinequest/internal/config"
)

func memoryConfig() config.Config {
	return config.Config{JWTSecret: "secret", StoreDriver: config.DriverMemory, DefaultAuthorName: "Anonymous Chef"}
}

func TestRunAppliesExampleFixtures(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-file", "seed.example.yaml"}, memoryConfig(), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected a token per user, got %q", out.String())
	}
	parts := strings.SplitN(lines[0], "\t", 2)
	id, err := auth.NewService("secret").ValidateAccessToken(parts[1])
	if err != nil || id.UserID != "chef-nadia" || id.Name != "Nadia" {
		t.Fatalf("unexpected token identity %+v (%v)", id, err)
	}
}

func TestRunWithoutTokens(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-file", "seed.example.yaml", "-tokens=false"}, memoryConfig(), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-file", "missing.yaml"}, memoryConfig(), &out); err == nil {
		t.Fatalf("expected missing file error")
	}
	if err := run(context.Background(), []string{"-file", "seed.example.yaml"}, config.Config{StoreDriver: config.DriverMemory}, &out); err == nil {
		t.Fatalf("expected config validation error")
	}
	if err := run(context.Background(), []string{"-nope"}, memoryConfig(), &out); err == nil {
		t.Fatalf("expected flag error")
	}
}
