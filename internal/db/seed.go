package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	seedCountries = []string{"GB", "GB", "GB", "US", "FR", "TR", "AE"}
	seedInterests = []string{"hiking", "coffee", "travel", "cooking", "football", "books", "music", "art", "cinema", "running"}
	seedLanguages = []string{"en", "ar", "ur", "fr", "tr", "es"}
	seedReligions = []string{"islam", "christianity", "none", ReligionUndisclosed}
)

// tables in child-first order for wiping.
var seedTables = []string{"conversations", "matches", "blocks", "swipes", "profiles", "users"}

// SeedTestData resets the database and populates it with demo users, profiles,
// swipes, blocks and the matches implied by mutual likes.
//
// Behavior:
//  1. Clears all discovery tables.
//  2. Creates 20 users (10 male, 10 female) with hashed passwords and complete profiles.
//     Every 5th user prefers "any".
//  3. Generates swipes with ~70% likes; every 3rd like is made mutual and gets a
//     Match + Conversation.
//  4. Adds a couple of blocks.
//
// Compatible with MySQL, Postgres and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if err := wipe(db); err != nil {
		return err
	}
	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	for i := 1; i <= 20; i++ {
		user := User{
			ID:           uint64(i),
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Active:       true,
			LastLoginAt:  now.Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		gender, pref := GenderMale, PreferFemale
		if i > 10 {
			gender, pref = GenderFemale, PreferMale
		}
		if i%5 == 0 {
			pref = PreferAny
		}

		birth := now.AddDate(-(20 + r.Intn(20)), -r.Intn(12), 0)
		profile := Profile{
			UserID:          user.ID,
			FirstName:       strPtr(fmt.Sprintf("User%d", i)),
			ProfilePicture:  strPtr(fmt.Sprintf("https://cdn.example.com/p/%d.jpg", i)),
			Birthdate:       &birth,
			Gender:          &gender,
			PreferredGender: &pref,
			PreferredAgeMin: intPtr(21),
			PreferredAgeMax: intPtr(40),
			Country:         strPtr(seedCountries[r.Intn(len(seedCountries))]),
			Interests:       pick(r, seedInterests, 2+r.Intn(4)),
			Languages:       pick(r, seedLanguages, 1+r.Intn(2)),
			Religion:        strPtr(seedReligions[r.Intn(len(seedReligions))]),
			UpdatedAt:       now.Add(-time.Duration(r.Intn(60*24)) * time.Hour),
		}
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
	}
	log.Println("Seeded 20 users.")

	counter, matches := 0, 0
	for swiper := uint64(1); swiper <= 20; swiper++ {
		for j := 0; j < 8; j++ {
			target := uint64(r.Intn(20) + 1)
			if target == swiper || (swiper <= 10) == (target <= 10) {
				continue
			}

			action := ActionPass
			if r.Intn(100) < 70 {
				action = ActionLike
			}
			if err := insertSwipe(db, swiper, target, action); err != nil {
				return err
			}

			if action == ActionLike && counter%3 == 0 {
				if err := insertSwipe(db, target, swiper, ActionLike); err != nil {
					return err
				}
			}
			counter++
		}
	}

	// materialize matches for every mutual like
	var pairs []struct{ A, B uint64 }
	if err := db.Raw(`
		SELECT s1.swiper_id AS a, s1.target_id AS b
		FROM swipes s1
		JOIN swipes s2 ON s2.swiper_id = s1.target_id AND s2.target_id = s1.swiper_id
		WHERE s1.action = ? AND s2.action = ? AND s1.swiper_id < s1.target_id`,
		ActionLike, ActionLike,
	).Scan(&pairs).Error; err != nil {
		return fmt.Errorf("failed to find mutual likes: %w", err)
	}
	for _, p := range pairs {
		if err := seedMatch(db, p.A, p.B, now); err != nil {
			return err
		}
		matches++
	}

	blocks := []Block{{BlockerID: 1, BlockedID: 19}, {BlockerID: 12, BlockedID: 3}}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&blocks).Error; err != nil {
		return fmt.Errorf("failed to seed blocks: %w", err)
	}

	log.Printf("Seeded %d swipe decisions, %d matches.", counter, matches)
	return nil
}

// SeedMinimalTestData wipes the DB and inserts a small deterministic dataset.
//
//   - user1 (male → female), user2 (female → male), user3 (female → any)
//   - user1 → user2 like, user2 → user1 like (matched)
//   - user3 → user1 like, user1 → user3 pass
func SeedMinimalTestData(db *gorm.DB) error {
	if err := wipe(db); err != nil {
		return err
	}

	now := time.Now().UTC()
	birth := now.AddDate(-28, 0, 0)
	male, female := GenderMale, GenderFemale
	wantFemale, wantMale, wantAny := PreferFemale, PreferMale, PreferAny

	users := []User{
		{ID: 1, Username: "user1", Email: "u1@test.com", PasswordHash: "x"},
		{ID: 2, Username: "user2", Email: "u2@test.com", PasswordHash: "x"},
		{ID: 3, Username: "user3", Email: "u3@test.com", PasswordHash: "x"},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	profiles := []Profile{
		{UserID: 1, FirstName: strPtr("Adam"), ProfilePicture: strPtr("1.jpg"), Birthdate: &birth, Gender: &male, PreferredGender: &wantFemale},
		{UserID: 2, FirstName: strPtr("Bina"), ProfilePicture: strPtr("2.jpg"), Birthdate: &birth, Gender: &female, PreferredGender: &wantMale},
		{UserID: 3, FirstName: strPtr("Cara"), ProfilePicture: strPtr("3.jpg"), Birthdate: &birth, Gender: &female, PreferredGender: &wantAny},
	}
	if err := db.Create(&profiles).Error; err != nil {
		return err
	}

	swipes := []Swipe{
		{SwiperID: 1, TargetID: 2, Action: ActionLike},
		{SwiperID: 2, TargetID: 1, Action: ActionLike},
		{SwiperID: 3, TargetID: 1, Action: ActionLike},
		{SwiperID: 1, TargetID: 3, Action: ActionPass},
	}
	if err := db.Create(&swipes).Error; err != nil {
		return err
	}

	return seedMatch(db, 1, 2, now)
}

func wipe(db *gorm.DB) error {
	for _, table := range seedTables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE matches AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE conversations AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('matches', 'conversations', 'users')")
	}
	return nil
}

func insertSwipe(db *gorm.DB, swiper, target uint64, action SwipeAction) error {
	s := Swipe{SwiperID: swiper, TargetID: target, Action: action}
	// swipes are immutable, so a repeated random pick keeps the first decision
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&s).Error; err != nil {
		return fmt.Errorf("failed to seed swipe: %w", err)
	}
	return nil
}

func seedMatch(db *gorm.DB, a, b uint64, at time.Time) error {
	return db.Transaction(func(tx *gorm.DB) error {
		m := Match{UserAID: min(a, b), UserBID: max(a, b), MatchedAt: at}
		if err := tx.Create(&m).Error; err != nil {
			return fmt.Errorf("failed to seed match: %w", err)
		}
		if err := tx.Create(&Conversation{MatchID: m.ID}).Error; err != nil {
			return fmt.Errorf("failed to seed conversation: %w", err)
		}
		return nil
	})
}

func pick(r *rand.Rand, from []string, n int) []string {
	idx := r.Perm(len(from))
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, from[i])
	}
	return out
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
