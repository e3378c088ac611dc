package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/anvil-dev/anvil/internal/executor"
)

func TestRenderReport(t *testing.T) {
	report := &executor.BatchReport{
		Action: executor.ActionInstall,
		Items: []executor.ItemReport{
			{Name: "base-system", Outcome: executor.OutcomeNoOp, Reason: "already satisfied"},
			{Name: "go-toolchain", Outcome: executor.OutcomeSuccess},
			{Name: "broken", Outcome: executor.OutcomeFailed, Reason: "script exited with status 1"},
			{Name: "dependent", Outcome: executor.OutcomeSkipped, Reason: "dependency broken failed"},
		},
	}

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	err := renderReport(cmd, report)
	if err == nil {
		t.Fatal("expected error for a batch with failures")
	}

	out := buf.String()
	for _, want := range []string{
		"go-toolchain",
		"already satisfied",
		"script exited with status 1",
		"dependency broken failed",
		"1 succeeded, 1 already satisfied, 1 failed, 1 skipped",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderReport_AllOK(t *testing.T) {
	report := &executor.BatchReport{
		Action: executor.ActionValidate,
		Items: []executor.ItemReport{
			{Name: "jq", Outcome: executor.OutcomeSuccess},
		},
	}

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	if err := renderReport(cmd, report); err != nil {
		t.Fatalf("renderReport: %v", err)
	}
}

func TestPolicyFromFlag(t *testing.T) {
	if policyFromFlag(true) != executor.FailFast {
		t.Error("expected FailFast")
	}
	if policyFromFlag(false) != executor.ContinueIndependentBranches {
		t.Error("expected ContinueIndependentBranches")
	}
}
