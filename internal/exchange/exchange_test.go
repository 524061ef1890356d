package exchange

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/fasttype/internal/model"
	"github.com/verte-zerg/fasttype/internal/store"
)

func sampleArchive() model.Archive {
	created := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	return model.Archive{
		Profiles: []model.Profile{{
			ID:              model.MainProfile,
			TypingLanguages: []string{"en", "fr"},
			KeyboardLayout:  "qwerty",
			Level:           2,
			XP:              4,
			BestWPM:         38,
			AccuracyAvg:     94,
			CreatedAt:       created,
		}},
		Sessions: []model.SessionRecord{{
			ID:           7,
			ProfileID:    model.MainProfile,
			Date:         created.Add(time.Hour),
			Language:     "en",
			WordsTyped:   12,
			CorrectWords: 11,
			Errors:       1,
			WPM:          38,
			CPS:          3.4,
			Accuracy:     94,
			LevelAtRun:   2,
			Mode:         model.ModeGuided,
			WrongWords:   []string{"house"},
		}},
		WordLists: []model.WordList{{Language: "en", Words: []string{"alpha", "beta"}, UpdatedAt: created}},
	}
}

type staticSource struct{ archive model.Archive }

func (s staticSource) Export(context.Context) (model.Archive, error) { return s.archive, nil }

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	f, err = ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("csv")
	assert.Error(t, err)

	assert.Equal(t, FormatXLSX, FormatFromPath("out/data.xlsx"))
	assert.Equal(t, FormatJSON, FormatFromPath("data.bin"))
}

func TestJSONRoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	src, err := store.Open(filepath.Join(t.TempDir(), "src.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	require.NoError(t, src.Replace(ctx, sampleArchive()))

	var buf bytes.Buffer
	require.NoError(t, Export(ctx, src, &buf, FormatJSON))

	dst, err := store.Open(filepath.Join(t.TempDir(), "dst.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dst.Close() })
	imported, err := Import(ctx, dst, &buf)
	require.NoError(t, err)
	require.Len(t, imported.Sessions, 1)

	profile, ok, err := dst.GetProfile(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 38, profile.BestWPM)
	assert.Equal(t, []string{"en", "fr"}, profile.TypingLanguages)

	sessions, err := dst.ListSessions(ctx, model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(7), sessions[0].ID)
	assert.Equal(t, []string{"house"}, sessions[0].WrongWords)
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleArchive(), FormatYAML))

	var decoded model.Archive
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Profiles, 1)
	assert.Equal(t, 2, decoded.Profiles[0].Level)
	assert.Contains(t, buf.String(), "best_wpm: 38")
}

func TestEncodeEmptyArchiveUsesLists(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, model.Archive{}, FormatJSON))
	assert.Contains(t, buf.String(), `"sessions": []`)
}

func TestEncodeXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(context.Background(), staticSource{sampleArchive()}, &buf, FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{SheetProfiles, SheetSessions, SheetWordLists}, f.GetSheetList())
	rows, err := f.GetRows(SheetSessions)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "WPM", rows[0][4])
	assert.Equal(t, "38", rows[1][4])
	assert.Equal(t, "house", rows[1][11])

	lists, err := f.GetRows(SheetWordLists)
	require.NoError(t, err)
	assert.Equal(t, "2", lists[1][1])
}

func TestDecodeRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown field": `{"profiles":[],"extra":1}`,
		"missing id":    `{"profiles":[{"level":1}]}`,
		"bad level":     `{"profiles":[{"id":"main","level":9}]}`,
		"bad mode":      `{"sessions":[{"language":"en","accuracy":90,"mode":"race"}]}`,
		"bad accuracy":  `{"sessions":[{"language":"en","accuracy":120,"mode":"custom"}]}`,
		"not json":      `profiles: []`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

type failingTarget struct{ called bool }

func (f *failingTarget) Replace(context.Context, model.Archive) error {
	f.called = true
	return assert.AnError
}

func TestImportDoesNotReplaceOnInvalidInput(t *testing.T) {
	target := &failingTarget{}
	_, err := Import(context.Background(), target, strings.NewReader(`{"profiles":[{"id":""}]}`))
	require.Error(t, err)
	assert.False(t, target.called)

	_, err = Import(context.Background(), target, strings.NewReader(`{}`))
	require.ErrorIs(t, err, assert.AnError)
	assert.True(t, target.called)
}
