package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"quickshow/internal/movies"
	"quickshow/internal/shared/config"
	"quickshow/internal/shared/database"
	"quickshow/internal/shared/types"
	"quickshow/internal/shows"
	"quickshow/internal/users"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type Seeder struct {
	db  *database.DB
	now time.Time
}

func main() {
	fmt.Println("🌱 Starting QuickShow Database Seeder...")

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db, now: time.Now()}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")
}

// CleanDatabase truncates all tables, children first
func (s *Seeder) CleanDatabase() error {
	tables := []string{"bookings", "shows", "movies", "users"}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	movieIDs, err := s.SeedMovies()
	if err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}

	if err := s.SeedShows(movieIDs); err != nil {
		return fmt.Errorf("failed to seed shows: %w", err)
	}

	// cached catalog pages, favorites and pending release timers refer to the old rows
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis: %v", err)
	}

	return nil
}

// SeedUsers mirrors three identity provider accounts. Tokens for them are
// minted by the provider; put the admin id in ADMIN_USER_IDS.
func (s *Seeder) SeedUsers() error {
	fmt.Println("  👤 Seeding users...")

	seedUsers := []users.User{
		{ID: "user_seed_admin", Name: "Admin User", Email: "admin@quickshow.app"},
		{ID: "user_seed_1", Name: "Avery Park", Email: "avery@example.com"},
		{ID: "user_seed_2", Name: "Jordan Lee", Email: "jordan@example.com"},
	}

	for i := range seedUsers {
		if err := s.db.PostgreSQL.Create(&seedUsers[i]).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", seedUsers[i].Email, err)
		}
		fmt.Printf("    ✅ Created user: %s (%s)\n", seedUsers[i].Email, seedUsers[i].ID)
	}
	return nil
}

// SeedMovies inserts catalog entries directly so no catalog key is needed
func (s *Seeder) SeedMovies() ([]movies.Movie, error) {
	fmt.Println("  🎬 Seeding movies...")

	seedMovies := []movies.Movie{
		{
			ExternalID:       "tt15239678",
			Title:            "Dune: Part Two",
			Overview:         "Paul Atreides unites with the Fremen while on a warpath of revenge.",
			PosterPath:       "https://image.tmdb.org/t/p/original/1pdfLvkbY9ohJlCjQH2CZjjYVvJ.jpg",
			BackdropPath:     "https://image.tmdb.org/t/p/original/xOMo8BRK7PfcJv9JCnx7s5hj0PX.jpg",
			ReleaseDate:      "2024-02-27",
			OriginalLanguage: "en",
			VoteAverage:      8.5,
			NumVotes:         600000,
			Runtime:          166,
			Genres:           types.StringList{"Action", "Adventure", "Drama"},
			Casts:            types.StringList{"Timothée Chalamet", "Zendaya", "Rebecca Ferguson"},
		},
		{
			ExternalID:       "tt1517268",
			Title:            "Barbie",
			Overview:         "Barbie suffers a crisis that leads her to question her world and her existence.",
			PosterPath:       "https://image.tmdb.org/t/p/original/iuFNMS8U5cb6xfzi51Dbkovj7vM.jpg",
			ReleaseDate:      "2023-07-21",
			OriginalLanguage: "en",
			VoteAverage:      6.8,
			NumVotes:         550000,
			Runtime:          114,
			Genres:           types.StringList{"Adventure", "Comedy", "Fantasy"},
			Casts:            types.StringList{"Margot Robbie", "Ryan Gosling"},
		},
		{
			ExternalID:       "tt6718170",
			Title:            "The Super Mario Bros. Movie",
			Overview:         "A plumber named Mario travels through an underground labyrinth with his brother.",
			PosterPath:       "https://image.tmdb.org/t/p/original/qNBAXBIQlnOThrVvA6mA2B5ggV6.jpg",
			ReleaseDate:      "2023-04-05",
			OriginalLanguage: "en",
			VoteAverage:      7.0,
			NumVotes:         250000,
			Runtime:          92,
			Genres:           types.StringList{"Animation", "Adventure", "Comedy"},
			Casts:            types.StringList{"Chris Pratt", "Anya Taylor-Joy", "Jack Black"},
		},
	}

	for i := range seedMovies {
		if err := s.db.PostgreSQL.Create(&seedMovies[i]).Error; err != nil {
			return nil, fmt.Errorf("failed to create movie %s: %w", seedMovies[i].Title, err)
		}
		fmt.Printf("    ✅ Created movie: %s\n", seedMovies[i].Title)
	}
	return seedMovies, nil
}

// SeedShows schedules three showtimes a day for the next three days
func (s *Seeder) SeedShows(seedMovies []movies.Movie) error {
	fmt.Println("  🎟️  Seeding shows...")

	slots := []time.Duration{13 * time.Hour, 17*time.Hour + 30*time.Minute, 21 * time.Hour}
	prices := []float64{12, 15, 9.5}
	today := time.Date(s.now.Year(), s.now.Month(), s.now.Day(), 0, 0, 0, 0, time.UTC)

	for i, movie := range seedMovies {
		var batch []shows.Show
		for day := 1; day <= 3; day++ {
			for _, slot := range slots {
				batch = append(batch, shows.Show{
					MovieID:      movie.ID,
					ShowDateTime: today.AddDate(0, 0, day).Add(slot),
					ShowPrice:    prices[i%len(prices)],
				})
			}
		}
		if err := s.db.PostgreSQL.Create(&batch).Error; err != nil {
			return fmt.Errorf("failed to create shows for %s: %w", movie.Title, err)
		}
		fmt.Printf("    ✅ Scheduled %d shows for %s\n", len(batch), movie.Title)
	}
	return nil
}
