package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-bot/api/internal/portal"
)

func TestAutoFill(t *testing.T) {
	t.Run("fills known fields with non-empty values", func(t *testing.T) {
		f := NewForm()
		f.AutoFill(map[string]portal.ExtractedField{
			"name":  {Value: "Asha", Conf: 0.92},
			"hours": {Value: "240", Conf: 0.4},
		})

		assert.Equal(t, "Asha", f.Value("name"))
		assert.Equal(t, LevelHigh, f.LevelFor("name"))
		assert.Equal(t, "240", f.Value("hours"))
		assert.Equal(t, LevelLow, f.LevelFor("hours"))
	})

	t.Run("skips empty values and unknown keys", func(t *testing.T) {
		f := NewForm()
		f.AutoFill(map[string]portal.ExtractedField{
			"name":    {Value: "", Conf: 0.8},
			"cert_id": {Value: "CERT-123", Conf: 0.9},
			"gst":     {Value: "27AAPFU0939F1ZV", Conf: 0.95},
		})

		assert.Equal(t, "", f.Value("name"))
		assert.Equal(t, LevelUnset, f.LevelFor("name"))
		assert.Equal(t, BannerNone, f.Banner())

		sub := f.Submission("u1")
		assert.Empty(t, sub.FieldConfidences)
	})

	t.Run("absent conf is treated as zero", func(t *testing.T) {
		f := NewForm()
		f.AutoFill(map[string]portal.ExtractedField{
			"organization": {Value: "Acme Labs"},
		})
		assert.Equal(t, "Acme Labs", f.Value("organization"))
		assert.Equal(t, LevelUnset, f.LevelFor("organization"))
		// unset does not gate submission
		assert.False(t, f.NeedsConfirmation())
	})

	t.Run("is idempotent", func(t *testing.T) {
		in := map[string]portal.ExtractedField{
			"name":  {Value: "Asha", Conf: 0.92},
			"hours": {Value: "240", Conf: 0.4},
		}
		f := NewForm()
		f.AutoFill(in)
		first := f.Snapshot()
		f.AutoFill(in)
		assert.Equal(t, first, f.Snapshot())
	})

	t.Run("fresh auto-fill discards earlier edits", func(t *testing.T) {
		in := map[string]portal.ExtractedField{"hours": {Value: "240", Conf: 0.4}}
		f := NewForm()
		f.AutoFill(in)
		f.FieldEdited("hours", "250")
		require.True(t, f.Verified("hours"))

		f.AutoFill(in)
		assert.False(t, f.Verified("hours"))
		assert.Equal(t, "240", f.Value("hours"))
		assert.Equal(t, LevelLow, f.LevelFor("hours"))
	})

	t.Run("preserves passthrough values", func(t *testing.T) {
		f := NewForm()
		f.FieldEdited("logs", "week 1: onboarding")
		f.AutoFill(map[string]portal.ExtractedField{"name": {Value: "Asha", Conf: 0.9}})
		assert.Equal(t, "week 1: onboarding", f.Value("logs"))
	})
}

func TestFieldEdited(t *testing.T) {
	t.Run("forces confidence to high", func(t *testing.T) {
		for _, conf := range []float64{0.1, 0.5, 0.74, 0.9} {
			f := NewForm()
			f.AutoFill(map[string]portal.ExtractedField{"hours": {Value: "240", Conf: conf}})
			f.FieldEdited("hours", "250")
			assert.Equalf(t, LevelHigh, f.LevelFor("hours"), "conf=%v", conf)
			assert.True(t, f.Verified("hours"))
		}
	})

	t.Run("records confidence for fields never auto-filled", func(t *testing.T) {
		f := NewForm()
		f.FieldEdited("name", "Asha")
		sub := f.Submission("u1")
		require.Contains(t, sub.FieldConfidences, "name")
		assert.Equal(t, portal.FieldConfidence{Value: "Asha", Conf: 1.0}, sub.FieldConfidences["name"])
	})

	t.Run("passthrough fields carry no confidence record", func(t *testing.T) {
		f := NewForm()
		f.FieldEdited("level", "UG")
		f.FieldEdited("logs", "daily notes")
		sub := f.Submission("u1")
		assert.Equal(t, "UG", sub.Level)
		assert.Equal(t, "daily notes", sub.Logs)
		assert.NotContains(t, sub.FieldConfidences, "level")
		assert.NotContains(t, sub.FieldConfidences, "logs")
	})
}

func TestNeedsConfirmation(t *testing.T) {
	t.Run("prompt shown iff a field is medium or low at call time", func(t *testing.T) {
		f := NewForm()
		f.AutoFill(map[string]portal.ExtractedField{
			"name":  {Value: "Asha", Conf: 0.9},
			"hours": {Value: "240", Conf: 0.4},
		})
		assert.True(t, f.NeedsConfirmation())

		f.FieldEdited("hours", "240")
		assert.False(t, f.NeedsConfirmation())
	})

	t.Run("all high needs no prompt", func(t *testing.T) {
		f := NewForm()
		f.AutoFill(map[string]portal.ExtractedField{
			"name":         {Value: "Asha", Conf: 0.92},
			"organization": {Value: "Acme", Conf: 0.85},
		})
		assert.False(t, f.NeedsConfirmation())
	})

	t.Run("medium gates too", func(t *testing.T) {
		f := NewForm()
		f.AutoFill(map[string]portal.ExtractedField{"name": {Value: "Asha", Conf: 0.6}})
		assert.True(t, f.NeedsConfirmation())
	})
}

func TestBanner(t *testing.T) {
	t.Run("none without auto-filled fields", func(t *testing.T) {
		f := NewForm()
		assert.Equal(t, BannerNone, f.Banner())
	})

	t.Run("all high", func(t *testing.T) {
		f := NewForm()
		f.AutoFill(map[string]portal.ExtractedField{"name": {Value: "Asha", Conf: 0.92}})
		assert.Equal(t, BannerAllHigh, f.Banner())
	})

	t.Run("attention when any field is not high", func(t *testing.T) {
		f := NewForm()
		f.AutoFill(map[string]portal.ExtractedField{
			"name":  {Value: "Asha", Conf: 0.92},
			"hours": {Value: "240", Conf: 0.4},
		})
		assert.Equal(t, BannerAttention, f.Banner())
	})
}

func TestSubmission(t *testing.T) {
	f := NewForm()
	f.AutoFill(map[string]portal.ExtractedField{
		"name":  {Value: "Asha", Conf: 0.92},
		"hours": {Value: "240", Conf: 0.4},
	})
	f.FieldEdited("hours", "250")
	f.FieldEdited("level", "UG")

	sub := f.Submission("upload-1")

	assert.Equal(t, "upload-1", sub.UploadID)
	assert.Equal(t, "Asha", sub.Name)
	assert.Equal(t, "250", sub.Hours)
	assert.Equal(t, "UG", sub.Level)

	// only fields with a recorded confidence appear
	require.Len(t, sub.FieldConfidences, 2)
	assert.Equal(t, portal.FieldConfidence{Value: "Asha", Conf: 0.92}, sub.FieldConfidences["name"])
	assert.Equal(t, portal.FieldConfidence{Value: "250", Conf: 1.0}, sub.FieldConfidences["hours"])
	assert.NotContains(t, sub.FieldConfidences, "organization")
}

func TestSnapshotRoundTrip(t *testing.T) {
	f := NewForm()
	f.AutoFill(map[string]portal.ExtractedField{"name": {Value: "Asha", Conf: 0.6}})
	f.FieldEdited("organization", "Acme")
	f.FieldEdited("logs", "notes")

	restored := RestoreForm(f.Snapshot())

	assert.Equal(t, f.Snapshot(), restored.Snapshot())
	assert.Equal(t, "Acme", restored.Value("organization"))
	assert.True(t, restored.Verified("organization"))
	assert.True(t, restored.NeedsConfirmation())
}
