// Package seed generates a local fixture dataset: partition post files in
// their three historical encodings, verdict files in the three known nesting
// shapes, and image stubs laid out the way the resolver probes for them.
package seed

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"modboard/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Generator produces a deterministic fixture dataset for a given seed.
type Generator struct {
	faker  *gofakeit.Faker
	logger *slog.Logger
}

// New returns a Generator seeded for reproducible output.
func New(seed uint64, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{faker: gofakeit.New(int64(seed)), logger: logger}
}

// Write populates dir with postsPerPartition posts per partition. Each
// partition uses a different field spelling generation so the fixture
// exercises the same variance as the real exports.
func (g *Generator) Write(dir string, postsPerPartition int) error {
	for _, source := range models.AllSources {
		if err := g.writePartition(dir, source, postsPerPartition); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) writePartition(dir string, source models.Source, count int) error {
	partDir := filepath.Join(dir, source.Dir())
	if err := os.MkdirAll(partDir, 0o755); err != nil {
		return err
	}

	posts := make([]map[string]any, 0, count)
	verdicts := make(map[string]any)

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("%s%04d", source.IDPrefix(), i)
		posts = append(posts, g.post(source, id))

		// Roughly a third of posts get no verdict, exercising the
		// default-safe path.
		if i%3 != 2 {
			verdicts[id] = g.verdict(source)
		}

		// Every other post gets a small image directory.
		if i%2 == 0 {
			if err := g.writeImages(dir, source, id, 1+i%3); err != nil {
				return err
			}
		}
	}

	prefix := source.FilePrefix()
	if err := writeJSON(filepath.Join(partDir, prefix+"_posts.json"), posts); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(partDir, prefix+"_llm_responses.json"), verdicts); err != nil {
		return err
	}

	g.logger.Info("partition seeded",
		slog.String("source", string(source)),
		slog.Int("posts", count),
		slog.Int("verdicts", len(verdicts)))
	return nil
}

// post builds one raw record in the partition's field spelling generation.
func (g *Generator) post(source models.Source, id string) map[string]any {
	f := g.faker
	title := f.Sentence(4)
	body := f.Paragraph(1, 3, 8, " ")
	user := f.Username()
	epoch := f.DateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	).Unix()

	comments := make([]map[string]any, 0, 3)
	for i := 0; i < f.Number(0, 3); i++ {
		comments = append(comments, map[string]any{
			"comment_id":        f.UUID(),
			"content":           f.Sentence(6),
			"user_id":           f.Username(),
			"nickname":          f.Name(),
			"create_time":       epoch + int64(i*60),
			"liked_count":       f.Number(0, 500),
			"parent_comment_id": "0",
		})
	}

	switch source {
	case models.SourcePart1:
		return map[string]any{
			"note_id":        id,
			"title":          title,
			"desc":           body,
			"user_id":        user,
			"nickname":       f.Name(),
			"liked_count":    strconv.Itoa(f.Number(0, 5000)),
			"comment_count":  strconv.Itoa(len(comments)),
			"time":           strconv.FormatInt(epoch, 10),
			"ip_location":    f.City(),
			"tag_list":       f.Word() + ", " + f.Word() + ", " + f.Word(),
			"source_keyword": f.Word(),
			"all_comments":   comments,
		}
	case models.SourcePart2:
		tags, _ := json.Marshal([]string{f.Word(), f.Word()})
		return map[string]any{
			"id":          id,
			"title":       title,
			"content":     body,
			"user_id":     user,
			"nickname":    f.Name(),
			"like_count":  f.Number(0, 5000),
			"share_count": f.Number(0, 300),
			"time":        epoch * 1000,
			"location":    f.City(),
			"tag_list":    string(tags),
			"comments":    comments,
		}
	default:
		return map[string]any{
			"note_id":         id,
			"title":           title,
			"text":            body,
			"user_id":         user,
			"collected_count": f.Number(0, 1000),
			"time":            epoch,
			"tags":            []string{f.Word(), f.Word()},
		}
	}
}

// verdict builds one verdict payload in the partition's nesting shape.
func (g *Generator) verdict(source models.Source) map[string]any {
	f := g.faker
	decision := f.RandomString([]string{"safe", "safe", "safe", "review", "block"})

	analysis := map[string]any{
		"final_decision": decision,
		"confidence":     f.Float64Range(0.5, 1.0),
	}
	if decision != "safe" {
		analysis["reasons"] = []string{f.HackerPhrase()}
	}

	switch source {
	case models.SourcePart1:
		return analysis
	case models.SourcePart2:
		return map[string]any{"analysis": analysis}
	default:
		return map[string]any{"overall": map[string]any{"analysis": analysis}}
	}
}

// writeImages writes n tiny JPEG files under the directory the resolver
// probes: {dir}/{Source}/images/{id}/{i}.jpg.
func (g *Generator) writeImages(dir string, source models.Source, id string, n int) error {
	imgDir := filepath.Join(dir, string(source), "images", id)
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		return err
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	c := color.RGBA{
		R: uint8(g.faker.Number(0, 255)),
		G: uint8(g.faker.Number(0, 255)),
		B: uint8(g.faker.Number(0, 255)),
		A: 255,
	}
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, c)
		}
	}

	for i := 0; i < n; i++ {
		f, err := os.Create(filepath.Join(imgDir, fmt.Sprintf("%d.jpg", i)))
		if err != nil {
			return err
		}
		if err := jpeg.Encode(f, img, nil); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
