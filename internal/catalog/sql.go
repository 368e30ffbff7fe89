package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"placefeed/internal/numfmt"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// swapped in tests
var sqlOpen = sql.Open

// SQLStore persists the catalog through database/sql. The schema is portable
// across the sqlite and postgres drivers; queries are written with "?"
// placeholders and rebound for postgres.
type SQLStore struct {
	db     *sql.DB
	driver string
}

func OpenSQL(driver, dsn string) (*SQLStore, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported catalog driver %q", driver)
	}
	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	store := &SQLStore{db: db, driver: driver}
	if err := store.ensureSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS venues (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  avatar TEXT NOT NULL DEFAULT '',
  handle TEXT NOT NULL DEFAULT '',
  place TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  image TEXT NOT NULL DEFAULT '',
  likes TEXT NOT NULL DEFAULT '0',
  total_likes TEXT NOT NULL DEFAULT '0',
  followers TEXT NOT NULL DEFAULT '0',
  rating REAL NOT NULL DEFAULT 0,
  bio TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS venue_gallery (
  venue_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  image_url TEXT NOT NULL,
  PRIMARY KEY (venue_id, position)
);
CREATE TABLE IF NOT EXISTS venue_tags (
  venue_id TEXT NOT NULL,
  tag TEXT NOT NULL,
  PRIMARY KEY (venue_id, tag)
);
CREATE TABLE IF NOT EXISTS venue_hours (
  venue_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  label TEXT NOT NULL,
  value TEXT NOT NULL,
  PRIMARY KEY (venue_id, position)
);
CREATE TABLE IF NOT EXISTS venue_reviews (
  id TEXT NOT NULL,
  venue_id TEXT NOT NULL,
  author TEXT NOT NULL,
  comment TEXT NOT NULL,
  rating INTEGER NOT NULL,
  review_date TEXT NOT NULL,
  PRIMARY KEY (venue_id, id)
);
CREATE TABLE IF NOT EXISTS venue_contacts (
  venue_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  label TEXT NOT NULL,
  value TEXT NOT NULL,
  icon TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (venue_id, position)
);
CREATE TABLE IF NOT EXISTS stories (
  id TEXT PRIMARY KEY,
  user_name TEXT NOT NULL,
  avatar TEXT NOT NULL DEFAULT '',
  image TEXT NOT NULL DEFAULT '',
  story_text TEXT NOT NULL DEFAULT '',
  venue_id TEXT NOT NULL
);
`
	_, err := s.db.Exec(schema)
	return err
}

// rebind rewrites "?" placeholders to "$n" for the postgres driver; sqlite
// takes them as-is.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Venues(ctx context.Context) ([]Venue, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM venues ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Venue, 0, len(ids))
	for _, id := range ids {
		v, err := s.Venue(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *SQLStore) Venue(ctx context.Context, id string) (Venue, error) {
	var (
		v                       Venue
		likes, total, followers string
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
SELECT id, name, avatar, handle, place, address, category, image, likes, total_likes, followers, rating, bio
FROM venues WHERE id=?`), id).Scan(
		&v.ID, &v.Name, &v.Avatar, &v.Handle, &v.Place, &v.Address, &v.Category,
		&v.Image, &likes, &total, &followers, &v.Rating, &v.Bio,
	)
	if err == sql.ErrNoRows {
		return Venue{}, ErrNotFound
	}
	if err != nil {
		return Venue{}, err
	}
	v.Likes = numfmt.String(likes)
	v.TotalLikes = numfmt.String(total)
	v.Followers = numfmt.String(followers)

	if v.Gallery, err = s.gallery(ctx, id); err != nil {
		return Venue{}, err
	}
	if v.Tags, err = s.tags(ctx, id); err != nil {
		return Venue{}, err
	}
	if v.WorkingHours, err = s.hours(ctx, id); err != nil {
		return Venue{}, err
	}
	if v.Reviews, err = s.reviews(ctx, id); err != nil {
		return Venue{}, err
	}
	if v.Contacts, err = s.contacts(ctx, id); err != nil {
		return Venue{}, err
	}
	return v, nil
}

func (s *SQLStore) gallery(ctx context.Context, venueID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT image_url FROM venue_gallery WHERE venue_id=? ORDER BY position`), venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		out = append(out, url)
	}
	return out, rows.Err()
}

func (s *SQLStore) tags(ctx context.Context, venueID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT tag FROM venue_tags WHERE venue_id=? ORDER BY tag`), venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}

func (s *SQLStore) hours(ctx context.Context, venueID string) ([]WorkingHours, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT label, value FROM venue_hours WHERE venue_id=? ORDER BY position`), venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WorkingHours
	for rows.Next() {
		var h WorkingHours
		if err := rows.Scan(&h.Label, &h.Value); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *SQLStore) reviews(ctx context.Context, venueID string) ([]Review, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, author, comment, rating, review_date FROM venue_reviews WHERE venue_id=? ORDER BY id`), venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.Author, &r.Comment, &r.Rating, &r.Date); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) contacts(ctx context.Context, venueID string) ([]ContactRef, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT label, value, icon FROM venue_contacts WHERE venue_id=? ORDER BY position`), venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ContactRef
	for rows.Next() {
		var c ContactRef
		if err := rows.Scan(&c.Label, &c.Value, &c.Icon); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) Stories(ctx context.Context) ([]Story, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_name, avatar, image, story_text, venue_id FROM stories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Story
	for rows.Next() {
		var st Story
		if err := rows.Scan(&st.ID, &st.UserName, &st.Avatar, &st.Image, &st.Text, &st.VenueID); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// SaveVenue upserts the record and rewrites its child rows in one
// transaction.
func (s *SQLStore) SaveVenue(ctx context.Context, v Venue) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.rebind(`
INSERT INTO venues (id, name, avatar, handle, place, address, category, image, likes, total_likes, followers, rating, bio)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT (id) DO UPDATE SET
  name=excluded.name, avatar=excluded.avatar, handle=excluded.handle,
  place=excluded.place, address=excluded.address, category=excluded.category,
  image=excluded.image, likes=excluded.likes, total_likes=excluded.total_likes,
  followers=excluded.followers, rating=excluded.rating, bio=excluded.bio`),
		v.ID, v.Name, v.Avatar, v.Handle, v.Place, v.Address, v.Category, v.Image,
		v.Likes.Source(), v.TotalLikes.Source(), v.Followers.Source(), v.Rating, v.Bio,
	); err != nil {
		return err
	}

	for _, table := range []string{"venue_gallery", "venue_tags", "venue_hours", "venue_reviews", "venue_contacts"} {
		if _, err := tx.ExecContext(ctx, s.rebind(
			`DELETE FROM `+table+` WHERE venue_id=?`), v.ID); err != nil {
			return err
		}
	}
	for i, url := range v.Gallery {
		if _, err := tx.ExecContext(ctx, s.rebind(
			`INSERT INTO venue_gallery (venue_id, position, image_url) VALUES (?,?,?)`),
			v.ID, i, url); err != nil {
			return err
		}
	}
	for _, tag := range v.Tags {
		if _, err := tx.ExecContext(ctx, s.rebind(
			`INSERT INTO venue_tags (venue_id, tag) VALUES (?,?)`),
			v.ID, tag); err != nil {
			return err
		}
	}
	for i, h := range v.WorkingHours {
		if _, err := tx.ExecContext(ctx, s.rebind(
			`INSERT INTO venue_hours (venue_id, position, label, value) VALUES (?,?,?,?)`),
			v.ID, i, h.Label, h.Value); err != nil {
			return err
		}
	}
	for _, r := range v.Reviews {
		if _, err := tx.ExecContext(ctx, s.rebind(
			`INSERT INTO venue_reviews (id, venue_id, author, comment, rating, review_date) VALUES (?,?,?,?,?,?)`),
			r.ID, v.ID, r.Author, r.Comment, r.Rating, r.Date); err != nil {
			return err
		}
	}
	for i, c := range v.Contacts {
		if _, err := tx.ExecContext(ctx, s.rebind(
			`INSERT INTO venue_contacts (venue_id, position, label, value, icon) VALUES (?,?,?,?,?)`),
			v.ID, i, c.Label, c.Value, c.Icon); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) SaveStory(ctx context.Context, st Story) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
INSERT INTO stories (id, user_name, avatar, image, story_text, venue_id)
VALUES (?,?,?,?,?,?)
ON CONFLICT (id) DO UPDATE SET
  user_name=excluded.user_name, avatar=excluded.avatar, image=excluded.image,
  story_text=excluded.story_text, venue_id=excluded.venue_id`),
		st.ID, st.UserName, st.Avatar, st.Image, st.Text, st.VenueID)
	return err
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM venues`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// DB exposes the handle so other stores (users) can share the database.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
