package viewset

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articleSchema(t *testing.T) *Schema {
	t.Helper()
	schema, err := NewSchema(
		&Field{Name: "id", ReadOnly: true},
		&Field{Name: "name", Required: true, Validators: []ValidatorFunc{MaxLength(10)}},
		&Field{Name: "mood", Default: "content"},
	)
	require.NoError(t, err)
	return schema
}

func TestSerializerIsValid(t *testing.T) {
	t.Run("ValidPayload", func(t *testing.T) {
		serializer := NewSerializer(articleSchema(t))

		ok := serializer.IsValid(NewPayload([]byte(`{"name": "Foo"}`)))

		require.True(t, ok)
		assert.Nil(t, serializer.Errors())
		assert.Equal(t, map[string]any{"name": "Foo", "mood": "content"}, serializer.ValidatedData())
	})

	t.Run("MissingRequiredField", func(t *testing.T) {
		serializer := NewSerializer(articleSchema(t))

		ok := serializer.IsValid(NewPayload([]byte(`{"mood": "grumpy"}`)))

		require.False(t, ok)
		assert.Nil(t, serializer.ValidatedData())
		assert.Equal(t, []string{RequiredFieldMessage}, serializer.Errors()["name"])
	})

	t.Run("ReadOnlyNeverInValidatedData", func(t *testing.T) {
		serializer := NewSerializer(articleSchema(t))

		ok := serializer.IsValid(NewPayload([]byte(`{"id": 99, "name": "Foo"}`)))

		require.True(t, ok)
		_, present := serializer.ValidatedData()["id"]
		assert.False(t, present)
	})

	t.Run("Idempotent", func(t *testing.T) {
		serializer := NewSerializer(articleSchema(t))
		payload := NewPayload([]byte(`{"name": "Foo"}`))

		require.True(t, serializer.IsValid(payload))
		first := serializer.ValidatedData()

		require.True(t, serializer.IsValid(payload))
		assert.Equal(t, first, serializer.ValidatedData())
		assert.Nil(t, serializer.Errors())
	})

	t.Run("FailureThenSuccessRecomputes", func(t *testing.T) {
		serializer := NewSerializer(articleSchema(t))

		require.False(t, serializer.IsValid(NewPayload([]byte(`{}`))))
		require.NotNil(t, serializer.Errors())

		require.True(t, serializer.IsValid(NewPayload([]byte(`{"name": "Foo"}`))))
		assert.Nil(t, serializer.Errors())
		assert.NotNil(t, serializer.ValidatedData())
	})

	t.Run("MalformedPayload", func(t *testing.T) {
		serializer := NewSerializer(articleSchema(t))

		ok := serializer.IsValid(NewPayload([]byte(`[1, 2, 3]`)))

		require.False(t, ok)
		assert.Contains(t, serializer.Errors(), NonFieldErrorsKey)
	})

	t.Run("ValidatorMessagesCollected", func(t *testing.T) {
		serializer := NewSerializer(articleSchema(t))

		ok := serializer.IsValid(NewPayload([]byte(`{"name": "far too long a name"}`)))

		require.False(t, ok)
		assert.Len(t, serializer.Errors()["name"], 1)
	})
}

func TestSerializerIsValidPartial(t *testing.T) {
	t.Run("RequiredNotEnforced", func(t *testing.T) {
		serializer := NewSerializer(articleSchema(t))

		ok := serializer.IsValidPartial(NewPayload([]byte(`{"mood": "grumpy"}`)))

		require.True(t, ok)
		assert.Equal(t, map[string]any{"mood": "grumpy"}, serializer.ValidatedData())
	})

	t.Run("SuppliedFieldsStillValidated", func(t *testing.T) {
		serializer := NewSerializer(articleSchema(t))

		ok := serializer.IsValidPartial(NewPayload([]byte(`{"name": "far too long a name"}`)))

		require.False(t, ok)
		assert.Contains(t, serializer.Errors(), "name")
	})

	t.Run("DefaultNotInjectedForAbsentField", func(t *testing.T) {
		serializer := NewSerializer(articleSchema(t))

		ok := serializer.IsValidPartial(NewPayload([]byte(`{"name": "Bar"}`)))

		require.True(t, ok)
		assert.Equal(t, map[string]any{"name": "Bar"}, serializer.ValidatedData())
	})

	t.Run("EmptyPayloadIsValid", func(t *testing.T) {
		serializer := NewSerializer(articleSchema(t))

		require.True(t, serializer.IsValidPartial(NewPayload([]byte(`{}`))))
		assert.Empty(t, serializer.ValidatedData())
	})
}

func TestSerializerBinding(t *testing.T) {
	serializer := NewSerializer(articleSchema(t))
	assert.Nil(t, serializer.Instance())

	instance := map[string]any{"id": 1}
	serializer.Bind(instance)
	assert.Equal(t, instance, serializer.Instance())

	serializer.Unbind()
	assert.Nil(t, serializer.Instance())
}

func TestSerializerSerialize(t *testing.T) {
	t.Run("Unbound", func(t *testing.T) {
		serializer := NewSerializer(articleSchema(t))

		_, err := serializer.Serialize()
		assert.ErrorIs(t, err, ErrUnboundSerializer)
	})

	t.Run("MapInstance", func(t *testing.T) {
		serializer := NewSerializer(articleSchema(t))
		serializer.Bind(map[string]any{"id": 1, "name": "Foo", "mood": "content", "extra": true})

		rep, err := serializer.Serialize()
		require.NoError(t, err)

		// Declared fields only, read-only included.
		assert.Equal(t, map[string]any{"id": 1, "name": "Foo", "mood": "content"}, rep)
	})

	t.Run("StructInstance", func(t *testing.T) {
		type Article struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
			Mood string `json:"mood"`
		}
		serializer := NewSerializer(articleSchema(t))
		serializer.Bind(&Article{ID: 1, Name: "Foo", Mood: "sleepy"})

		rep, err := serializer.Serialize()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"id": 1, "name": "Foo", "mood": "sleepy"}, rep)
	})

	t.Run("SpecialTypesRendered", func(t *testing.T) {
		type Tagged struct {
			ID   uuid.UUID `json:"id"`
			Seen time.Time `json:"seen"`
		}
		schema := MustSchema(&Field{Name: "id", ReadOnly: true}, &Field{Name: "seen"})

		id := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
		seen := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		serializer := NewSerializer(schema)
		serializer.Bind(Tagged{ID: id, Seen: seen})

		rep, err := serializer.Serialize()
		require.NoError(t, err)
		assert.Equal(t, id.String(), rep["id"])
		assert.Equal(t, "2024-05-01T12:00:00Z", rep["seen"])
	})

	t.Run("RepresenterOverrides", func(t *testing.T) {
		serializer := NewSerializer(articleSchema(t))
		serializer.Bind(representable{})

		rep, err := serializer.Serialize()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"custom": true}, rep)
	})

	t.Run("UnsupportedInstance", func(t *testing.T) {
		serializer := NewSerializer(articleSchema(t))
		serializer.Bind(42)

		_, err := serializer.Serialize()
		assert.Error(t, err)
	})
}

type representable struct{}

func (representable) Represent() (map[string]any, error) {
	return map[string]any{"custom": true}, nil
}
