package referee

import (
	"testing"

	"github.com/npillmayer/geography"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registry(t *testing.T, names ...string) *Registry {
	t.Helper()
	cities := make([]geography.City, len(names))
	for i, name := range names {
		c, err := geography.NewCity(name, "", "", i+1)
		require.NoError(t, err)
		cities[i] = c
	}
	r, err := LoadRegistry(geography.CityList(cities...))
	require.NoError(t, err)
	return r
}

func TestRegistryConsume(t *testing.T) {
	r := registry(t, "Springfield", "Salem", "Springfield")
	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Contains("springfield"))

	c, ok := r.Consume("SPRINGFIELD")
	require.True(t, ok)
	assert.Equal(t, 1, c.ID)
	assert.True(t, r.Contains("springfield"))

	c, ok = r.Consume("springfield")
	require.True(t, ok)
	assert.Equal(t, 3, c.ID)
	assert.False(t, r.Contains("springfield"))

	_, ok = r.Consume("springfield")
	assert.False(t, ok)
	assert.True(t, r.Contains("salem"), "removing a name must keep other names")
	assert.Equal(t, 1, r.Len())
}

func TestRegistryConsumeKeepsUnrelatedNames(t *testing.T) {
	r := registry(t, "Paris", "Seoul", "London")
	_, ok := r.Consume("paris")
	require.True(t, ok)
	assert.False(t, r.Contains("paris"))
	assert.True(t, r.Contains("seoul"))
	assert.True(t, r.Contains("london"))
	assert.Equal(t, 2, r.Len())

	for _, name := range []string{"london", "seoul"} {
		_, ok := r.Consume(name)
		require.True(t, ok, name)
	}
	assert.Equal(t, 0, r.Len())
	for _, name := range []string{"paris", "seoul", "london"} {
		assert.False(t, r.Contains(name), name)
	}
	assert.False(t, r.HasResponse("paris"))

	r.Add(geography.City{Name: "paris", ID: 4})
	c, ok := r.Consume("Paris")
	require.True(t, ok, "a used name can be registered again")
	assert.Equal(t, 4, c.ID)
}

func TestRegistryHasResponse(t *testing.T) {
	r := registry(t, "Paris", "Seoul", "London")
	assert.True(t, r.HasResponse("paris"))
	assert.True(t, r.HasResponse("seoul"))
	assert.False(t, r.HasResponse("london"))
	assert.False(t, r.HasResponse(""))

	_, ok := r.Consume("seoul")
	require.True(t, ok)
	assert.False(t, r.HasResponse("paris"), "seoul has been used")
}

func TestRegistrySuggest(t *testing.T) {
	r := registry(t, "Paris", "Parma", "Perth", "Madrid")
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"pariss", "paris", true},
		{"parme", "parma", true},
		{"berth", "", false}, // different first letter
		{"pxxxxx", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := r.Suggest(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
	r.Consume("paris")
	got, _ := r.Suggest("pariss")
	assert.NotEqual(t, "paris", got, "used cities must not be suggested")
}
