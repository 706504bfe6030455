package botdefense

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// serves a fake content listing to bots
func ServePoisonedJSON(c *gin.Context) {
	data := generateFakeContent(rand.Intn(15) + 5) //nolint:gosec
	c.JSON(200, gin.H{
		"content": data,
		"pagination": gin.H{
			"total":    len(data),
			"limit":    len(data),
			"offset":   0,
			"has_more": true,
		},
	})
}

// looks like a content record but points at frames that do not exist
type fakeContent struct {
	ID          string  `json:"id"`
	CreatorID   string  `json:"creator_id"`
	Platform    string  `json:"platform"`
	Title       string  `json:"title"`
	WatermarkID string  `json:"watermark_id"`
	FileURL     string  `json:"file_url"`
	Touches     int64   `json:"touches"`
	Earnings    float64 `json:"earnings"`
	CreatedAt   string  `json:"created_at"`
}

var (
	titleSubjects = []string{"Sunset", "Street", "Portrait", "Studio", "Skyline", "Forest", "Harbor", "Desert", "Neon", "Market"}
	titleKinds    = []string{"Study", "Series", "Reel", "Shot", "Take", "Frame", "Edit", "Draft", "Cut", "Loop"}
	fakePlatforms = []string{"youtube", "tiktok", "instagram", "twitter", "facebook"}
)

func generateFakeContent(count int) []fakeContent {
	items := make([]fakeContent, count)
	for i := range items {
		items[i] = fakeContent{
			ID:          uuid.NewString(),
			CreatorID:   uuid.NewString(),
			Platform:    fakePlatforms[rand.Intn(len(fakePlatforms))], //nolint:gosec
			Title:       randomTitle(),
			WatermarkID: uuid.NewString(),
			FileURL:     "/uploads/" + uuid.NewString() + ".png",
			Touches:     rand.Int63n(5000),                        //nolint:gosec
			Earnings:    float64(rand.Intn(1_000_000)) / 1_000_000, //nolint:gosec
			CreatedAt:   randomDate(),
		}
	}
	return items
}

func randomTitle() string {
	subject := titleSubjects[rand.Intn(len(titleSubjects))]         //nolint:gosec
	kind := titleKinds[rand.Intn(len(titleKinds))]                  //nolint:gosec
	return fmt.Sprintf("%s %s %d", subject, kind, rand.Intn(100)) //nolint:gosec
}

func randomDate() string {
	days := rand.Intn(720) //nolint:gosec
	return time.Now().UTC().AddDate(0, 0, -days).Truncate(time.Minute).Format(time.RFC3339)
}
