package model

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProject(t *testing.T) {
	fs := afero.NewMemMapFs()
	layout := NewLayout("/work")

	_, err := LoadProject(fs, layout)
	assert.True(t, errors.Is(err, ErrDescriptor), "missing package.json")

	require.NoError(t, afero.WriteFile(fs, layout.PackageDescriptor(),
		[]byte(`{"packagingVersion":"4.0","name":"foo","tags":["0.40.5-1.3.3","extra"]}`), 0644))
	p, err := LoadProject(fs, layout)
	require.NoError(t, err)
	assert.Equal(t, "foo", p.Name)
	assert.Equal(t, "0.40.5-1.3.3", p.SDKVersion)
	assert.Equal(t, layout, p.Layout)

	require.NoError(t, afero.WriteFile(fs, layout.PackageDescriptor(), []byte(`{"name":"bar","tags":[]}`), 0644))
	p, err = LoadProject(fs, layout)
	require.NoError(t, err)
	assert.Equal(t, "bar", p.Name)
	assert.Empty(t, p.SDKVersion)

	require.NoError(t, afero.WriteFile(fs, layout.PackageDescriptor(), []byte(`{"tags":[]}`), 0644))
	_, err = LoadProject(fs, layout)
	assert.True(t, errors.Is(err, ErrDescriptor), "missing name")

	require.NoError(t, afero.WriteFile(fs, layout.PackageDescriptor(), []byte(`{"name":`), 0644))
	_, err = LoadProject(fs, layout)
	assert.True(t, errors.Is(err, ErrDescriptor), "invalid JSON")
}

func TestWriteDescriptor(t *testing.T) {
	fs := afero.NewMemMapFs()
	obj, err := ReadDescriptor(fs, "/nope.json")
	assert.Nil(t, obj)
	assert.True(t, errors.Is(err, ErrDescriptor))

	require.NoError(t, afero.WriteFile(fs, "/in.json", []byte(`{"b":1,"a":{"c":true}}`), 0644))
	obj, err = ReadDescriptor(fs, "/in.json")
	require.NoError(t, err)
	require.NoError(t, WriteDescriptor(fs, "/out.json", obj))

	out, err := afero.ReadFile(fs, "/out.json")
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"b\": 1,\n    \"a\": {\n        \"c\": true\n    }\n}", string(out))
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"foo", "hello-world", "px1"} {
		assert.NoError(t, ValidateName(name))
	}
	for _, name := range []string{"", "foo bar", "foo/bar", "foo.bar", "foo_bar", "élan", "Foo", "f\u2010o"} {
		assert.True(t, errors.Is(ValidateName(name), ErrInvalidName), "name %q", name)
	}
}
