package service

import (
	"context"
	"strings"
	"time"

	"contentservice/app/config"
	"contentservice/app/events"
	"contentservice/app/models"
	"contentservice/app/repositories"
	"contentservice/app/services"

	"github.com/brianvoe/gofakeit/v6"
)

var seedCategories = []string{"news", "tech", "travel", "food", "culture"}

// fakePostInput generates a plausible create request.
func fakePostInput(f *gofakeit.Faker) models.CreatePostInput {
	title := strings.TrimSuffix(f.Sentence(f.Number(3, 8)), ".")
	if len(title) > 200 {
		title = title[:200]
	}
	in := models.CreatePostInput{
		Title:   title,
		Content: f.Paragraph(f.Number(1, 3), f.Number(2, 5), 12, "\n\n"),
	}
	if f.Bool() {
		author := f.Name()
		authorID := int64(f.Number(1, 10000))
		in.Author = &author
		in.AuthorID = &authorID
	}
	if f.Bool() {
		category := f.RandomString(seedCategories)
		in.Category = &category
	}
	return in
}

func seedPosts(ctx context.Context, cfg *config.Config, count int) (int, error) {
	repo, err := repositories.Open(cfg.DB, false)
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	svc := services.NewPostService(repo, publisher)
	f := gofakeit.New(time.Now().UnixNano())

	for i := 0; i < count; i++ {
		if _, err := svc.CreatePost(ctx, fakePostInput(f)); err != nil {
			return i, err
		}
	}
	return count, nil
}
