package config

import (
	"errors"
	"strings"
	"testing"
)

func TestExpandEnvStrict_Expands(t *testing.T) {
	t.Setenv("RC_ROOT", "/srv/cache")

	out, err := ExpandEnvStrict("${RC_ROOT}/results")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if out != "/srv/cache/results" {
		t.Fatalf("ExpandEnvStrict() = %q", out)
	}
}

func TestExpandEnvStrict_MissingVarErrors(t *testing.T) {
	t.Setenv("PRESENT", "ok")

	_, err := ExpandEnvStrict("a=${PRESENT} b=${MISSING}")
	if !errors.Is(err, ErrMissingEnv) {
		t.Fatalf("expected ErrMissingEnv, got: %v", err)
	}
	if !strings.Contains(err.Error(), "MISSING") {
		t.Fatalf("expected missing var name in error, got: %v", err)
	}
}

func TestExpandEnvStrict_MissingVarsSorted(t *testing.T) {
	_, err := ExpandEnvStrict("${ZZZ_UNSET} and ${AAA_UNSET}")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "AAA_UNSET, ZZZ_UNSET") {
		t.Fatalf("expected sorted var names, got: %v", err)
	}
}

func TestExpandEnvStrict_DollarEscape(t *testing.T) {
	t.Setenv("X", "y")

	out, err := ExpandEnvStrict("$$${X}")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if out != "$y" {
		t.Fatalf("ExpandEnvStrict() = %q, want %q", out, "$y")
	}
}

func TestExpandEnvStrict_NoVariables(t *testing.T) {
	out, err := ExpandEnvStrict("/plain/path")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if out != "/plain/path" {
		t.Fatalf("ExpandEnvStrict() = %q", out)
	}
}
