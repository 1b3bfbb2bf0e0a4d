package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type deleteContextKey string

const (
	deleteAutoApproveContextKey deleteContextKey = "kongadmin-delete-auto-approve"

	// ApproveFlagName skips the delete confirmation prompt.
	ApproveFlagName = "approve"
)

// SetDeleteAutoApprove stores the --approve flag state on the command context.
func SetDeleteAutoApprove(cmd *cobra.Command, approved bool) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, deleteAutoApproveContextKey, approved))
}

// DeleteAutoApproveEnabled reports whether the user opted to skip confirmation prompts.
func DeleteAutoApproveEnabled(helper Helper) bool {
	if helper == nil || helper.GetCmd() == nil || helper.GetCmd().Context() == nil {
		return false
	}
	approved, _ := helper.GetCmd().Context().Value(deleteAutoApproveContextKey).(bool)
	return approved
}

// ConfirmDelete asks the user to type "yes" before description is deleted,
// unless --approve was given.
func ConfirmDelete(helper Helper, description string) error {
	if DeleteAutoApproveEnabled(helper) {
		return nil
	}

	streams := helper.GetStreams()
	fmt.Fprintf(streams.Out, "\nYou are about to delete %s\n", description)
	fmt.Fprint(streams.Out, "\nDo you want to continue? Type 'yes' to confirm: ")

	input := streams.In
	if f, ok := input.(*os.File); ok && f.Fd() == os.Stdin.Fd() {
		if tty, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0); err == nil {
			defer tty.Close()
			input = tty
		}
	}

	lineCh := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(input).ReadString('\n')
		lineCh <- line
	}()

	ctx := helper.GetContext()
	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case <-ctx.Done():
		return PrepareExecutionErrorMsg(helper, "delete cancelled")
	case line := <-lineCh:
		if !strings.EqualFold(strings.TrimSpace(line), "yes") {
			return PrepareExecutionErrorMsg(helper, "delete cancelled")
		}
		return nil
	}
}
