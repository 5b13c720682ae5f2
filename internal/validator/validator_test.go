package validator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseRecord(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &record))
	return record
}

const sampleRecord = `{
	"id": 7,
	"source": "manual",
	"meta": {"meta_description": "a", "language": "en"},
	"turns": [
		{"role": "user", "text": "hi"},
		{"role": "assistant", "text": "yo"}
	]
}`

func TestValidate_IdentityEdit(t *testing.T) {
	original := parseRecord(t, sampleRecord)

	serialized, err := json.Marshal(original)
	require.NoError(t, err)

	edited, err := Validate(original, string(serialized))
	require.NoError(t, err)
	require.Equal(t, original, edited)
}

func TestValidate_WhitelistedChanges(t *testing.T) {
	original := parseRecord(t, sampleRecord)

	edited, err := Validate(original, `{
		"id": 7,
		"source": "manual",
		"meta": {"meta_description": "rewritten", "language": "en"},
		"turns": [
			{"role": "user", "text": "hello there"},
			{"role": "assistant", "text": "yo"}
		]
	}`)
	require.NoError(t, err)

	require.Equal(t, "rewritten", edited["meta"].(map[string]interface{})["meta_description"])
	require.Equal(t, "hello there", edited["turns"].([]interface{})[0].(map[string]interface{})["text"])

	// Everything outside the whitelist survived untouched.
	require.Equal(t, original["id"], edited["id"])
	require.Equal(t, original["source"], edited["source"])
	require.Equal(t, "en", edited["meta"].(map[string]interface{})["language"])
	require.Equal(t, "assistant", edited["turns"].([]interface{})[1].(map[string]interface{})["role"])
}

func TestValidate_MalformedJSON(t *testing.T) {
	original := parseRecord(t, sampleRecord)

	for name, text := range map[string]string{
		"trailing comma":   `{"id": 7,}`,
		"unbalanced brace": `{"id": 7`,
		"not JSON at all":  `id = 7`,
		"empty":            ``,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Validate(original, text)
			var malformed *MalformedJSONError
			require.ErrorAs(t, err, &malformed)
		})
	}
}

func TestValidate_JSONButNotAnObject(t *testing.T) {
	original := parseRecord(t, sampleRecord)

	_, err := Validate(original, `[1, 2, 3]`)
	var structure *StructureChangedError
	require.ErrorAs(t, err, &structure)
	require.Equal(t, "top-level keys differ", structure.Detail)
}

func TestValidate_StructureChanges(t *testing.T) {
	original := parseRecord(t, sampleRecord)

	cases := []struct {
		name   string
		edited string
		detail string
	}{
		{
			name: "added top-level key",
			edited: `{"id": 7, "source": "manual", "extra": true,
				"meta": {"meta_description": "a", "language": "en"},
				"turns": [{"role": "user", "text": "hi"}, {"role": "assistant", "text": "yo"}]}`,
			detail: "top-level keys differ",
		},
		{
			name: "removed top-level key",
			edited: `{"id": 7,
				"meta": {"meta_description": "a", "language": "en"},
				"turns": [{"role": "user", "text": "hi"}, {"role": "assistant", "text": "yo"}]}`,
			detail: "top-level keys differ",
		},
		{
			name: "removed meta sibling key",
			edited: `{"id": 7, "source": "manual",
				"meta": {"meta_description": "a"},
				"turns": [{"role": "user", "text": "hi"}, {"role": "assistant", "text": "yo"}]}`,
			detail: "meta keys differ",
		},
		{
			name: "removed a turn",
			edited: `{"id": 7, "source": "manual",
				"meta": {"meta_description": "a", "language": "en"},
				"turns": [{"role": "user", "text": "hi"}]}`,
			detail: "turns length/shape differs",
		},
		{
			name: "added a turn",
			edited: `{"id": 7, "source": "manual",
				"meta": {"meta_description": "a", "language": "en"},
				"turns": [{"role": "user", "text": "hi"}, {"role": "assistant", "text": "yo"}, {"role": "user", "text": "more"}]}`,
			detail: "turns length/shape differs",
		},
		{
			name: "turns became an object",
			edited: `{"id": 7, "source": "manual",
				"meta": {"meta_description": "a", "language": "en"},
				"turns": {"role": "user"}}`,
			detail: "turns length/shape differs",
		},
		{
			name: "renamed role key in turn 2",
			edited: `{"id": 7, "source": "manual",
				"meta": {"meta_description": "a", "language": "en"},
				"turns": [{"role": "user", "text": "hi"}, {"Role": "assistant", "text": "yo"}]}`,
			detail: "turn 2 keys differ",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(original, tc.edited)
			var structure *StructureChangedError
			require.ErrorAs(t, err, &structure)
			require.Equal(t, tc.detail, structure.Detail)
		})
	}
}

func TestValidate_RoleImmutable(t *testing.T) {
	original := parseRecord(t, sampleRecord)

	// Changing role to another perfectly valid role string is still
	// forbidden; the key set is intact so this is a value rejection.
	_, err := Validate(original, `{"id": 7, "source": "manual",
		"meta": {"meta_description": "a", "language": "en"},
		"turns": [{"role": "system", "text": "hi"}, {"role": "assistant", "text": "yo"}]}`)

	var forbidden *ForbiddenFieldError
	require.ErrorAs(t, err, &forbidden)
	require.Equal(t, "turn 1 role", forbidden.Field)
}

func TestValidate_ForbiddenTopLevelValue(t *testing.T) {
	original := parseRecord(t, sampleRecord)

	_, err := Validate(original, `{"id": 8, "source": "manual",
		"meta": {"meta_description": "a", "language": "en"},
		"turns": [{"role": "user", "text": "hi"}, {"role": "assistant", "text": "yo"}]}`)

	var forbidden *ForbiddenFieldError
	require.ErrorAs(t, err, &forbidden)
	require.Equal(t, "id", forbidden.Field)
}

func TestValidate_ForbiddenMetaSiblingValue(t *testing.T) {
	original := parseRecord(t, sampleRecord)

	_, err := Validate(original, `{"id": 7, "source": "manual",
		"meta": {"meta_description": "a", "language": "fr"},
		"turns": [{"role": "user", "text": "hi"}, {"role": "assistant", "text": "yo"}]}`)

	var forbidden *ForbiddenFieldError
	require.ErrorAs(t, err, &forbidden)
	require.Equal(t, "meta.language", forbidden.Field)
}

func TestValidate_AbsentMetaAndTurns(t *testing.T) {
	t.Run("both absent accepted", func(t *testing.T) {
		original := parseRecord(t, `{"id": 1}`)
		edited, err := Validate(original, `{"id": 1}`)
		require.NoError(t, err)
		require.Equal(t, original, edited)
	})

	t.Run("null meta must stay null", func(t *testing.T) {
		original := parseRecord(t, `{"id": 1, "meta": null}`)
		_, err := Validate(original, `{"id": 1, "meta": {}}`)
		var structure *StructureChangedError
		require.ErrorAs(t, err, &structure)
		require.Equal(t, "meta keys differ", structure.Detail)
	})

	t.Run("null turns must stay null", func(t *testing.T) {
		original := parseRecord(t, `{"id": 1, "turns": null}`)
		_, err := Validate(original, `{"id": 1, "turns": []}`)
		var structure *StructureChangedError
		require.ErrorAs(t, err, &structure)
		require.Equal(t, "turns length/shape differs", structure.Detail)
	})
}

// The worked example from the platform docs: description and
// assistant text change together, one removed turn is rejected.
func TestValidate_ConcreteExample(t *testing.T) {
	original := parseRecord(t,
		`{"meta":{"meta_description":"a"},"turns":[{"role":"user","text":"hi"},{"role":"assistant","text":"yo"}]}`)

	edited, err := Validate(original,
		`{"meta":{"meta_description":"b"},"turns":[{"role":"user","text":"hi"},{"role":"assistant","text":"hello!"}]}`)
	require.NoError(t, err)
	require.Equal(t, "b", edited["meta"].(map[string]interface{})["meta_description"])

	_, err = Validate(original,
		`{"meta":{"meta_description":"a"},"turns":[{"role":"user","text":"hi"}]}`)
	var structure *StructureChangedError
	require.ErrorAs(t, err, &structure)
	require.Equal(t, "turns length/shape differs", structure.Detail)
}

func TestValidate_DoesNotMutateOriginal(t *testing.T) {
	original := parseRecord(t, sampleRecord)
	before, err := json.Marshal(original)
	require.NoError(t, err)

	_, _ = Validate(original, `{"id": 8}`)
	_, validErr := Validate(original, string(before))
	require.NoError(t, validErr)

	after, err := json.Marshal(original)
	require.NoError(t, err)
	require.JSONEq(t, string(before), string(after))
}

func TestValidate_ErrorMessages(t *testing.T) {
	original := parseRecord(t, sampleRecord)

	_, err := Validate(original, `{`)
	require.True(t, errors.As(err, new(*MalformedJSONError)))
	require.Contains(t, err.Error(), "malformed JSON")

	_, err = Validate(original, `{"id": 7}`)
	require.Contains(t, err.Error(), "top-level keys differ")
}
