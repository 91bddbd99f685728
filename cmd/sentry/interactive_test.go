package main

import (
	"bufio"
	"strings"
	"testing"

	"StockSentry/internal/model"
)

func reader(input string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(input))
}

func TestChooseCondition(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  model.ConditionType
	}{
		{"below", "1\n", model.ConditionBelow},
		{"above", "2\n", model.ConditionAbove},
		{"re-prompts past bad input", "x\n\n9\n2\n", model.ConditionAbove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chooseCondition(reader(tt.input)); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChooseAction(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  model.ActionType
	}{
		{"notify", "1\n", model.ActionNotify},
		{"buy", "2\n", model.ActionBuy},
		{"sell", "3\n", model.ActionSell},
		{"re-prompts past bad input", "sell_all\n0\n3\n", model.ActionSell},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chooseAction(reader(tt.input)); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
