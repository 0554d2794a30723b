package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadPool_YAML(t *testing.T) {
	path := writeFile(t, "pool.yaml", `
categories:
  - id: kitchen
    name: Kitchen
    quiz:
      require_image: true
items:
  - id: 1
    text: Löffel
    attribute: masculine
    category: kitchen
    part_of_speech: [noun]
    image: img/loeffel.png
    has_image: true
  - id: 2
    text: Tasse
    attribute: feminine
    category: garden
    part_of_speech: [noun]
`)

	pool, err := LoadPool(path)
	require.NoError(t, err)
	require.Len(t, pool.Items, 2)
	assert.Equal(t, "Löffel", pool.Items[0].Text)
	assert.True(t, pool.Items[0].HasImage)

	kitchen, ok := pool.Category("kitchen")
	require.True(t, ok)
	assert.True(t, kitchen.Quiz.RequireImage)

	garden, ok := pool.Category("garden")
	require.True(t, ok, "implicit category should be registered")
	assert.True(t, garden.Quiz.RequireAudio)
	assert.Equal(t, "Kitchen", pool.CategoryName("kitchen"))
	assert.Equal(t, "unknown", pool.CategoryName("unknown"))
}

func TestLoadPool_JSONRoundTrip(t *testing.T) {
	pool := &Pool{
		Categories: []Category{{ID: "animals", Name: "Animals", Quiz: QuizConfig{RequireAudio: true}}},
		Items: []Item{{
			ID: 9, Text: "Hund", Attribute: "m", Category: "animals",
			PartOfSpeech: []string{"noun"},
			Audio:        Audio{Isolation: "a/hund.mp3", Context: "a/der-hund.mp3"},
			HasAudio:     true,
		}},
	}
	path := filepath.Join(t.TempDir(), "pool.json")
	require.NoError(t, WritePool(path, pool))

	got, err := LoadPool(path)
	require.NoError(t, err)
	assert.Equal(t, pool, got)
}

func TestLoadPool_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "pool.txt", "nope")
	_, err := LoadPool(path)
	assert.Error(t, err)
}

func TestImportSpreadsheet_CSV(t *testing.T) {
	path := writeFile(t, "words.csv", "ID,Text,Attribute,Category,Part_of_Speech,Image,Audio_Isolation,Audio_Context\n"+
		"1,Katze,f,animals,noun,,a/katze.mp3,a/die-katze.mp3\n"+
		"x,Broken,m,animals,noun,,,\n"+
		"3,,m,animals,noun,,,\n"+
		"4,laufen,,verbs,verb;infinitive,,,\n")

	res, err := ImportSpreadsheet(ImportConfig{FilePath: path})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, res.Errors, 2)

	cat := res.Pool.Items[0]
	assert.Equal(t, 1, cat.ID)
	assert.True(t, cat.HasAudio)
	assert.False(t, cat.HasImage)
	assert.Equal(t, "a/die-katze.mp3", cat.Audio.Context)
	assert.Equal(t, []string{"verb", "infinitive"}, res.Pool.Items[1].PartOfSpeech)

	ids := []string{}
	for _, c := range res.Pool.Categories {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"animals", "verbs"}, ids)
}

func TestImportSpreadsheet_XLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]any{
		{"id", "text", "attribute", "category", "part_of_speech", "image"},
		{1, "Tisch", "masculine", "furniture", "noun", "img/tisch.png"},
		{2, "Lampe", "feminine", "furniture", "noun", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "words.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	res, err := ImportSpreadsheet(ImportConfig{FilePath: path})
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)
	assert.Equal(t, "Tisch", res.Pool.Items[0].Text)
	assert.True(t, res.Pool.Items[0].HasImage)
	assert.False(t, res.Pool.Items[1].HasImage)
}

func TestImportSpreadsheet_MissingColumn(t *testing.T) {
	path := writeFile(t, "words.csv", "id,text\n1,Haus\n")
	_, err := ImportSpreadsheet(ImportConfig{FilePath: path})
	assert.ErrorContains(t, err, "attribute")
}
