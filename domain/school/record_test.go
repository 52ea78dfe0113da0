package school

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_String_CoercesStoredTypes(t *testing.T) {
	record := Record{
		"name":   "Alice",
		"marks":  float64(42),
		"count":  7,
		"flag":   true,
		"absent": nil,
	}

	assert.Equal(t, "Alice", record.String("name"))
	assert.Equal(t, "42", record.String("marks"))
	assert.Equal(t, "7", record.String("count"))
	assert.Equal(t, "true", record.String("flag"))
	assert.Equal(t, "", record.String("absent"))
	assert.Equal(t, "", record.String("missing"))
}

func TestRecord_Int_CoercesStoredTypes(t *testing.T) {
	record := Record{
		"float":  float64(15),
		"int":    10,
		"string": " 25 ",
		"bad":    "not a number",
	}

	assert.Equal(t, 15, record.Int("float"))
	assert.Equal(t, 10, record.Int("int"))
	assert.Equal(t, 25, record.Int("string"))
	assert.Equal(t, 0, record.Int("bad"))
	assert.Equal(t, 0, record.Int("missing"))
}

func TestRecord_Bool_UsesTruthyCoercion(t *testing.T) {
	record := Record{
		"native": true,
		"text":   "TRUE",
		"number": float64(1),
		"no":     "no",
	}

	assert.True(t, record.Bool("native"))
	assert.True(t, record.Bool("text"))
	assert.True(t, record.Bool("number"))
	assert.False(t, record.Bool("no"))
	assert.False(t, record.Bool("missing"))
}

func TestRecord_WithoutPassword(t *testing.T) {
	record := Record{
		FieldStudentID: "S001",
		FieldPassword:  "secret",
		FieldFirstName: "Alice",
	}

	stripped := record.WithoutPassword()

	assert.NotContains(t, stripped, FieldPassword)
	assert.Equal(t, "S001", stripped.String(FieldStudentID))
	// The original record keeps its password.
	assert.Equal(t, "secret", record.String(FieldPassword))
}

func TestParseTruthy(t *testing.T) {
	truthy := []any{true, "true", "TRUE", " yes ", "y", "1", float64(2), 1}
	for _, v := range truthy {
		assert.True(t, ParseTruthy(v), "expected %v (%T) to be truthy", v, v)
	}

	falsy := []any{false, "false", "no", "0", "", float64(0), 0, nil, []any{"x"}}
	for _, v := range falsy {
		assert.False(t, ParseTruthy(v), "expected %v (%T) to be falsy", v, v)
	}
}

func TestNormalizeStringList(t *testing.T) {
	t.Run("native list", func(t *testing.T) {
		assert.Equal(t, []string{"P1", "P2"}, NormalizeStringList([]string{"P1", "P2"}))
	})

	t.Run("any list from the store", func(t *testing.T) {
		assert.Equal(t, []string{"P1", "P2"}, NormalizeStringList([]any{"P1", " P2"}))
	})

	t.Run("json encoded string", func(t *testing.T) {
		assert.Equal(t, []string{"P1", "P2"}, NormalizeStringList(`["P1"," P2"]`))
	})

	t.Run("comma separated string", func(t *testing.T) {
		assert.Equal(t, []string{"P1", "P2"}, NormalizeStringList("P1, P2"))
	})

	t.Run("malformed json falls back to splitting", func(t *testing.T) {
		assert.Equal(t, []string{`["P1"`, `"P2"`}, NormalizeStringList(`["P1","P2"`))
	})

	t.Run("empty and nil", func(t *testing.T) {
		assert.Nil(t, NormalizeStringList(""))
		assert.Nil(t, NormalizeStringList(nil))
	})
}
