package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		desc string
		want Signals
	}{
		{"", Signals{}},
		{"simple task", Signals{}},
		{"Please branch the flow", Signals{HasDecision: true}},
		{"do several steps", Signals{HasMultipleSteps: true}},
		{"if we need several branches", Signals{HasDecision: true, HasMultipleSteps: true}},
		{"MAKE A CHOICE", Signals{HasDecision: true}},
		{"air conditioning service", Signals{HasDecision: true}},
		{"a gift for many", Signals{HasDecision: true, HasMultipleSteps: true}},
		{"Multiple approvals", Signals{HasMultipleSteps: true}},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.desc))
		})
	}
}
