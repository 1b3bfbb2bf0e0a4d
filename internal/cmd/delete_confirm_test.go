package cmd

import (
	"context"
	"testing"

	"github.com/kong/kongadmin/internal/iostreams"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfirmHelper(t *testing.T, input string) (Helper, *iostreams.IOStreams) {
	t.Helper()
	streams, in, _, _ := iostreams.NewTestIOStreams()
	in.WriteString(input)

	c := &cobra.Command{Use: "delete"}
	c.SetContext(context.WithValue(context.Background(), iostreams.StreamsKey, streams))
	return BuildHelper(c, nil), streams
}

func TestConfirmDeleteAccepted(t *testing.T) {
	helper, streams := newConfirmHelper(t, "yes\n")

	require.NoError(t, ConfirmDelete(helper, "service example-service"))
	assert.Contains(t, streams.Out.(interface{ String() string }).String(),
		"You are about to delete service example-service")
}

func TestConfirmDeleteRejected(t *testing.T) {
	helper, _ := newConfirmHelper(t, "no\n")

	err := ConfirmDelete(helper, "service example-service")
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "delete cancelled", execErr.Msg)
	assert.True(t, helper.GetCmd().SilenceUsage)
}

func TestConfirmDeleteApproved(t *testing.T) {
	helper, streams := newConfirmHelper(t, "")
	SetDeleteAutoApprove(helper.GetCmd(), true)

	require.NoError(t, ConfirmDelete(helper, "service example-service"))
	assert.Empty(t, streams.Out.(interface{ String() string }).String())
}
