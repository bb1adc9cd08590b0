package pricing

import (
	"testing"
)

func TestCompileRule(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{"tier check", `tier == "gold"`, false},
		{"volume threshold", `quantity >= 24.0`, false},
		{"combined", `channel == "wholesale" && quantity >= 10.0`, false},
		{"syntax error", `tier ==`, true},
		{"unknown variable", `warehouse == "main"`, true},
		{"non-bool result", `quantity + 1.0`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileRule(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Errorf("CompileRule(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
		})
	}
}

func TestRuleApplies(t *testing.T) {
	rule, err := CompileRule(`channel == "wholesale" && quantity >= 10.0`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	tests := []struct {
		name    string
		tier    string
		channel Channel
		qty     string
		want    bool
	}{
		{"wholesale large order", "standard", ChannelWholesale, "24", true},
		{"wholesale small order", "standard", ChannelWholesale, "2", false},
		{"retail large order", "standard", ChannelRetail, "24", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rule.Applies(tt.tier, tt.channel, d(tt.qty))
			if err != nil {
				t.Fatalf("Applies: %v", err)
			}
			if got != tt.want {
				t.Errorf("Applies = %v, want %v", got, tt.want)
			}
		})
	}
}
