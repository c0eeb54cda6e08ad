package schema

import (
	"errors"
	"testing"
)

func TestOptionKind(t *testing.T) {
	tests := []struct {
		name   string
		option Option
		want   Kind
	}{
		{"text", Option{Caption: "MainDir", Name: "MainDir"}, KindText},
		{"numeric", Option{Caption: "ArticleCache", Choices: []string{"MB"}}, KindNumeric},
		{"switch", Option{Caption: "WriteLog", Choices: []string{"none", "append", "reset"}}, KindSwitch},
		{"password", Option{Caption: "Server1.Password", Name: "Server1.Password"}, KindPassword},
		{"unpack password is text", Option{Caption: "Password", Name: "*Unpack:Password"}, KindText},
		{"command", Option{Caption: "Reload", CommandOpts: "settings"}, KindCommand},
		{"info", Option{Caption: "Header", Info: true}, KindInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.option.Kind(); got != tt.want {
				t.Errorf("Kind() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOptionValidate(t *testing.T) {
	current := "auto"

	tests := []struct {
		name    string
		option  Option
		value   string
		wantErr bool
	}{
		{"number", Option{Name: "ArticleCache", Choices: []string{"MB"}}, "100", false},
		{"fraction", Option{Name: "Ratio", Choices: []string{"%"}}, "1.5", false},
		{"empty number", Option{Name: "ArticleCache", Choices: []string{"MB"}}, "", false},
		{"not a number", Option{Name: "ArticleCache", Choices: []string{"MB"}}, "lots", true},
		{"in range", Option{Name: "Port", Choices: []string{"1-65535"}}, "8080", false},
		{"below range", Option{Name: "Port", Choices: []string{"1-65535"}}, "0", true},
		{"above range", Option{Name: "Port", Choices: []string{"1-65535"}}, "70000", true},
		{"choice", Option{Name: "WriteLog", Choices: []string{"none", "append"}}, "APPEND", false},
		{"unknown choice", Option{Name: "WriteLog", Choices: []string{"none", "append"}}, "rotate", true},
		{"current value", Option{Name: "Mode", Choices: []string{"fast", "slow"}, Value: &current}, "auto", false},
		{"text", Option{Name: "MainDir"}, "anything at all", false},
		{"command", Option{Name: "Reload", CommandOpts: "settings"}, "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.option.Validate(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidValue) {
					t.Errorf("Expected ErrInvalidValue, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestOptionCanonical(t *testing.T) {
	option := Option{Choices: []string{"yes", "no"}}

	if got := option.Canonical("YES"); got != "yes" {
		t.Errorf("Canonical(YES) = %q, want yes", got)
	}
	if got := option.Canonical("other"); got != "other" {
		t.Errorf("Canonical(other) = %q, want other", got)
	}
}
