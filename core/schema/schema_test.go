package schema_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/rawline/core/schema"
)

func TestCodeIsCaseInsensitiveCRC32(t *testing.T) {
	assert.Equal(t, schema.Code("IFCWALL"), schema.Code("IfcWall"))
	assert.NotEqual(t, schema.Code("IFCWALL"), schema.Code("IFCSLAB"))
	assert.NotEqual(t, schema.Unknown, schema.Code("IFCWALL"))
}

func TestRegistryResolvesBuiltins(t *testing.T) {
	r := schema.NewRegistry()

	code := r.TypeCode("IFCWALL")
	require.NotEqual(t, schema.Unknown, code)
	assert.Equal(t, schema.Code("IFCWALL"), code)

	name, ok := r.Name(code)
	require.True(t, ok)
	assert.Equal(t, "IFCWALL", name)
}

func TestUnknownNamesResolveToSentinel(t *testing.T) {
	r := schema.NewRegistry()
	assert.Equal(t, schema.Unknown, r.TypeCode("IFCNOTATHING"))
	assert.Equal(t, schema.Unknown, r.TypeCode(""))

	_, ok := r.Name(schema.Code("IFCNOTATHING"))
	assert.False(t, ok)
}

func TestRegister(t *testing.T) {
	r := schema.NewEmptyRegistry()
	assert.Equal(t, 0, r.Len())

	r.Register("IfcCustomThing", "  ", "IFCCUSTOMTHING")
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, schema.Code("IFCCUSTOMTHING"), r.TypeCode("ifccustomthing"))
	assert.Equal(t, []string{"IFCCUSTOMTHING"}, r.Names())
}

func TestSuggest(t *testing.T) {
	r := schema.NewEmptyRegistry()
	r.Register("IFCWALL", "IFCWALLSTANDARDCASE", "IFCSLAB", "IFCBEAM")

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"prefix prefers shortest", "IFCWAL", []string{"IFCWALL", "IFCWALLSTANDARDCASE"}},
		{"case folded", "ifcsla", []string{"IFCSLAB"}},
		{"transposition falls back to edit distance", "IFCBAEM", []string{"IFCBEAM"}},
		{"exact name is not suggested", "IFCBEAM", nil},
		{"nothing close", "FOO", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Suggest(tt.input))
		})
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := schema.NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.Register(fmt.Sprintf("IFCGENERATED%d", i))
		}(i)
		go func() {
			defer wg.Done()
			_ = r.TypeCode("IFCWALL")
			_ = r.Names()
		}()
	}
	wg.Wait()
	assert.NotEqual(t, schema.Unknown, r.TypeCode("IFCGENERATED7"))
}
