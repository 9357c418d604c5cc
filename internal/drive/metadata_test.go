package drive

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetadata_AllKinds(t *testing.T) {
	m, err := ParseMetadata([]byte(`{
		"id": "f1",
		"editable": true,
		"quotaBytesUsed": 12345678901234567890,
		"description": null,
		"parents": [{"id": "root"}],
		"labels": {"starred": false}
	}`))
	require.NoError(t, err)

	assert.Equal(t, KindString, m["id"].Kind())
	assert.Equal(t, KindBool, m["editable"].Kind())
	assert.Equal(t, KindNumber, m["quotaBytesUsed"].Kind())
	assert.Equal(t, KindNull, m["description"].Kind())
	assert.Equal(t, KindArray, m["parents"].Kind())
	assert.Equal(t, KindObject, m["labels"].Kind())

	n, ok := m["quotaBytesUsed"].AsNumber()
	require.True(t, ok)
	assert.Equal(t, "12345678901234567890", n.String())

	labels, ok := m["labels"].AsObject()
	require.True(t, ok)

	starred, ok := labels["starred"].AsBool()
	require.True(t, ok)
	assert.False(t, starred)
}

func TestParseMetadata_RejectsNonObjects(t *testing.T) {
	for _, input := range []string{`null`, `[]`, `"x"`, `{`, ``} {
		_, err := ParseMetadata([]byte(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestMetadata_RoundTripPreservesUnknownFields(t *testing.T) {
	input := `{"id":"f1","labels":{"hidden":false,"trashed":true},"size":1.50,"tags":["a",1,null]}`

	m, err := ParseMetadata([]byte(input))
	require.NoError(t, err)

	out, err := json.Marshal(m)
	require.NoError(t, err)

	assert.JSONEq(t, input, string(out))
	assert.Contains(t, string(out), `1.50`)
}

func TestValue_MarshalConstructed(t *testing.T) {
	m := Metadata{
		"title":   String("hello.txt"),
		"count":   Int(3),
		"shared":  Bool(true),
		"parents": Array(Object(Metadata{"id": String("root")})),
		"none":    Null(),
		"empty":   Array(),
		"nested":  Object(nil),
	}

	out, err := json.Marshal(m)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"title": "hello.txt",
		"count": 3,
		"shared": true,
		"parents": [{"id": "root"}],
		"none": null,
		"empty": [],
		"nested": {}
	}`, string(out))
}

func TestValue_AccessorsRejectOtherKinds(t *testing.T) {
	v := String("x")

	_, ok := v.AsBool()
	assert.False(t, ok)

	_, ok = v.AsNumber()
	assert.False(t, ok)

	_, ok = v.AsArray()
	assert.False(t, ok)

	_, ok = v.AsObject()
	assert.False(t, ok)

	assert.False(t, v.IsNull())
	assert.True(t, Value{}.IsNull())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "null", KindNull.String())
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestMetadata_WellKnownAccessors(t *testing.T) {
	m := Metadata{
		"id":          String("abc"),
		"title":       String("report.pdf"),
		"mimeType":    String("application/pdf"),
		"downloadUrl": String("https://example.com/dl"),
		"fileSize":    String("2048"),
	}

	assert.Equal(t, "abc", m.ID())
	assert.Equal(t, "report.pdf", m.Title())
	assert.Equal(t, "application/pdf", m.MimeType())
	assert.Equal(t, "https://example.com/dl", m.DownloadURL())
	assert.Equal(t, int64(2048), m.FileSize())
}

func TestMetadata_AccessorsOnMissingOrWrongKind(t *testing.T) {
	var empty Metadata

	assert.Empty(t, empty.ID())
	assert.Empty(t, empty.DownloadURL())
	assert.Equal(t, int64(-1), empty.FileSize())

	m := Metadata{"id": Int(7), "fileSize": String("lots")}
	assert.Empty(t, m.ID())
	assert.Equal(t, int64(-1), m.FileSize())
}

func TestMetadata_FileSizeAsNumber(t *testing.T) {
	m := Metadata{"fileSize": Int(99)}
	assert.Equal(t, int64(99), m.FileSize())
}

func TestMetadata_Items(t *testing.T) {
	m, err := ParseMetadata([]byte(`{"kind":"drive#fileList","items":[{"id":"a"},"skip",{"id":"b"}]}`))
	require.NoError(t, err)

	items := m.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID())
	assert.Equal(t, "b", items[1].ID())
}

func TestMetadata_ItemsEmptyVersusMissing(t *testing.T) {
	withEmpty, err := ParseMetadata([]byte(`{"items":[]}`))
	require.NoError(t, err)
	assert.NotNil(t, withEmpty.Items())
	assert.Empty(t, withEmpty.Items())

	assert.Nil(t, Metadata{}.Items())
}

func TestMetadata_CloneIsIndependent(t *testing.T) {
	orig := Metadata{"title": String("a")}
	clone := orig.Clone()
	clone["title"] = String("b")

	assert.Equal(t, "a", orig.Title())
	assert.Equal(t, "b", clone.Title())
}
