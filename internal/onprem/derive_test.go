package onprem

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKongNamespace(t *testing.T) {
	assert.Equal(t, "f428f158-e192-34da-8cf4-7ceafa709022", KongNamespace.String())
}

func TestDeriveID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "service name", input: "example-service", want: "7d759e49-f78f-3f08-8cc3-dd7e4652f969"},
		{name: "plugin name", input: "key-auth", want: "875f6c0e-c18b-32b6-8038-4910753aa048"},
		{name: "address", input: "10.0.0.1:8000", want: "50db326e-7855-3b43-aa36-f50b61a4d792"},
		{name: "uuid is kept", input: "3f2504e0-4f89-11d3-9a0c-0305e82c3301", want: "3f2504e0-4f89-11d3-9a0c-0305e82c3301"},
		{name: "uuid is lower cased", input: "3F2504E0-4F89-11D3-9A0C-0305E82C3301", want: "3f2504e0-4f89-11d3-9a0c-0305e82c3301"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveID(tt.input))
		})
	}
}

func TestDeriveIDProperties(t *testing.T) {
	names := []string{"", "a", "A", "example-service", "example-service ", "backend", "ünïcødé"}
	seen := map[string]string{}

	for _, name := range names {
		id := DeriveID(name)
		assert.Equal(t, id, DeriveID(name), "derivation must be deterministic")

		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(3), parsed.Version())
		assert.Equal(t, uuid.RFC4122, parsed.Variant())

		if other, dup := seen[id]; dup {
			t.Fatalf("names %q and %q derived the same id %s", other, name, id)
		}
		seen[id] = name

		assert.Equal(t, id, DeriveID(id), "derived ids are stable under derivation")
	}
}
