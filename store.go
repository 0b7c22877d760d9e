package pubseo

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/pubseo/seo"
)

// Store wraps a SQLite database and provides CRUD operations for posts,
// pages, their SEO metadata and uploaded images.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the public site read while an editor saves; writers wait on
	// the busy timeout instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    tags TEXT NOT NULL,
    summary TEXT NOT NULL,
    content TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS post_meta (
    slug TEXT NOT NULL,
    meta_key TEXT NOT NULL,
    meta_value TEXT NOT NULL,
    PRIMARY KEY (slug, meta_key)
);
CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	if err != nil {
		return err
	}
	for _, stmt := range []string{
		`ALTER TABLE posts ADD COLUMN type TEXT NOT NULL DEFAULT 'post';`,
		`ALTER TABLE posts ADD COLUMN modified TEXT NOT NULL DEFAULT '';`,
		`ALTER TABLE posts ADD COLUMN featured_image TEXT NOT NULL DEFAULT '';`,
	} {
		if _, err := s.db.Exec(stmt); err != nil && !strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
			return err
		}
	}
	return nil
}

const postColumns = `slug, type, title, date, modified, tags, summary, content, published, featured_image`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(r rowScanner) (BlogPost, error) {
	var p BlogPost
	var tags string
	var published int
	if err := r.Scan(&p.Slug, &p.Type, &p.Title, &p.Date, &p.Modified, &tags, &p.Summary, &p.Content, &published, &p.FeaturedImage); err != nil {
		return BlogPost{}, err
	}
	p.Tags = ParseTags(tags)
	p.Published = published == 1
	p.Link = ItemPath(p.Type, p.Slug)
	return p, nil
}

// ItemPath returns the site-relative path of an item without trailing slash.
func ItemPath(itemType, slug string) string {
	if itemType == TypePage {
		return "/" + slug
	}
	return "/blog/" + slug
}

// queryPosts runs a post query and attaches each row's SEO metadata.
func (s *Store) queryPosts(query string, args ...any) ([]BlogPost, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return posts, nil
	}
	meta, err := s.allMeta()
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].SEO = seo.MetadataFromValues(meta[posts[i].Slug])
	}
	return posts, nil
}

func (s *Store) getPost(query string, slug string) (BlogPost, error) {
	p, err := scanPost(s.db.QueryRow(query, slug))
	if err != nil {
		return BlogPost{}, err
	}
	meta, err := s.GetMeta(slug)
	if err != nil {
		return BlogPost{}, err
	}
	p.SEO = meta
	return p, nil
}

// ListPosts returns all published posts ordered by date descending.
// If tag is non-empty, results are filtered to posts containing that tag.
// Pages are never listed.
func (s *Store) ListPosts(tag string) ([]BlogPost, error) {
	if tag == "" {
		return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE published = 1 AND type = ? ORDER BY date DESC`, TypePost)
	}
	normalizedTag := strings.ToLower(strings.TrimSpace(tag))
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE published = 1 AND type = ? AND instr(lower(tags), ',' || ? || ',') > 0 ORDER BY date DESC`, TypePost, normalizedTag)
}

// ListPages returns all published pages ordered by title.
func (s *Store) ListPages() ([]BlogPost, error) {
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE published = 1 AND type = ? ORDER BY title`, TypePage)
}

// ListTags returns a sorted, deduplicated slice of all tags from published posts.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM posts WHERE published = 1 AND type = ?`, TypePost)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[strings.ToLower(t)] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var result []string
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// GetPost returns a single published post or page by slug.
func (s *Store) GetPost(slug string) (BlogPost, error) {
	return s.getPost(`SELECT `+postColumns+` FROM posts WHERE slug = ? AND published = 1`, slug)
}

// GetPostAny returns a post by slug regardless of published status (for admin).
func (s *Store) GetPostAny(slug string) (BlogPost, error) {
	return s.getPost(`SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
}

// ListAllPosts returns every post and page (published and drafts) ordered by
// date descending.
func (s *Store) ListAllPosts() ([]BlogPost, error) {
	return s.queryPosts(`SELECT ` + postColumns + ` FROM posts ORDER BY date DESC`)
}

// SavePost upserts a post and replaces its SEO metadata in one transaction.
// Tags are normalized to lowercase; Modified is stamped with the current time.
func (s *Store) SavePost(p BlogPost) error {
	normalizedTags := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		normalizedTags[i] = strings.ToLower(strings.TrimSpace(t))
	}
	tagString := "," + strings.Join(normalizedTags, ",") + ","
	published := 0
	if p.Published {
		published = 1
	}
	if p.Type == "" {
		p.Type = TypePost
	}
	modified := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`INSERT OR REPLACE INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Type, p.Title, p.Date, modified, tagString, p.Summary, p.Content, published, p.FeaturedImage); err != nil {
		return fmt.Errorf("save post %s: %w", p.Slug, err)
	}
	if err := saveMeta(tx, p.Slug, p.SEO); err != nil {
		return err
	}
	return tx.Commit()
}

// DeletePost removes a post and its SEO metadata by slug.
func (s *Store) DeletePost(slug string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM post_meta WHERE slug = ?`, slug); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM posts WHERE slug = ?`, slug); err != nil {
		return err
	}
	return tx.Commit()
}

// GetMeta returns the SEO metadata stored for slug. Missing keys are unset.
func (s *Store) GetMeta(slug string) (seo.Metadata, error) {
	rows, err := s.db.Query(`SELECT meta_key, meta_value FROM post_meta WHERE slug = ?`, slug)
	if err != nil {
		return seo.Metadata{}, err
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return seo.Metadata{}, err
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return seo.Metadata{}, err
	}
	return seo.MetadataFromValues(values), nil
}

// SaveMeta replaces the SEO metadata of slug. Empty fields are removed.
func (s *Store) SaveMeta(slug string, meta seo.Metadata) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := saveMeta(tx, slug, meta); err != nil {
		return err
	}
	return tx.Commit()
}

func saveMeta(tx *sql.Tx, slug string, meta seo.Metadata) error {
	values := meta.Values()
	for _, key := range seo.MetaKeys {
		v, ok := values[key]
		if !ok {
			if _, err := tx.Exec(`DELETE FROM post_meta WHERE slug = ? AND meta_key = ?`, slug, key); err != nil {
				return fmt.Errorf("delete meta %s/%s: %w", slug, key, err)
			}
			continue
		}
		if _, err := tx.Exec(`INSERT OR REPLACE INTO post_meta (slug, meta_key, meta_value) VALUES (?, ?, ?)`, slug, key, v); err != nil {
			return fmt.Errorf("save meta %s/%s: %w", slug, key, err)
		}
	}
	return nil
}

func (s *Store) allMeta() (map[string]map[string]string, error) {
	rows, err := s.db.Query(`SELECT slug, meta_key, meta_value FROM post_meta`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]map[string]string)
	for rows.Next() {
		var slug, k, v string
		if err := rows.Scan(&slug, &k, &v); err != nil {
			return nil, err
		}
		if out[slug] == nil {
			out[slug] = make(map[string]string)
		}
		out[slug][k] = v
	}
	return out, rows.Err()
}

// QueryPosts returns published items of args.Type whose stored metadata
// satisfies args.MetaQuery, newest first.
func (s *Store) QueryPosts(args seo.QueryArgs) ([]BlogPost, error) {
	where, params, err := metaQuerySQL(args.MetaQuery)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + postColumns + ` FROM posts WHERE published = 1`
	if args.Type != "" {
		query += ` AND type = ?`
		params = append([]any{args.Type}, params...)
	}
	return s.queryPosts(query+where+` ORDER BY date DESC`, params...)
}

// metaQuerySQL translates meta groups into AND-ed SQL fragments. Each group
// ORs its clauses; each clause is an EXISTS test against post_meta.
func metaQuerySQL(groups []seo.MetaGroup) (string, []any, error) {
	var b strings.Builder
	var params []any
	for _, g := range groups {
		if len(g.Clauses) == 0 {
			continue
		}
		parts := make([]string, 0, len(g.Clauses))
		for _, c := range g.Clauses {
			const sub = `SELECT 1 FROM post_meta m WHERE m.slug = posts.slug AND m.meta_key = ?`
			switch c.Compare {
			case seo.CompareNotExists:
				parts = append(parts, `NOT EXISTS (`+sub+`)`)
				params = append(params, c.Key)
			case seo.CompareNotLike:
				parts = append(parts, `EXISTS (`+sub+` AND m.meta_value NOT LIKE ? ESCAPE '\')`)
				params = append(params, c.Key, "%"+escapeLike(c.Value)+"%")
			case seo.CompareEqual:
				parts = append(parts, `EXISTS (`+sub+` AND m.meta_value = ?)`)
				params = append(params, c.Key, c.Value)
			default:
				return "", nil, fmt.Errorf("unsupported meta compare %q", c.Compare)
			}
		}
		b.WriteString(" AND (" + strings.Join(parts, " OR ") + ")")
	}
	return b.String(), params, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// SaveImage upserts uploaded image metadata.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// GetImage returns metadata for one uploaded image.
func (s *Store) GetImage(filename string) (Image, error) {
	var img Image
	err := s.db.QueryRow(`SELECT filename, original_name, width, height, size, uploaded_at FROM images WHERE filename = ?`, filename).
		Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt)
	return img, err
}

// ListImages returns all uploaded images, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes image metadata and clears it from any post using it
// as featured image.
func (s *Store) DeleteImage(filename string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`UPDATE posts SET featured_image = '' WHERE featured_image = ?`, filename); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM images WHERE filename = ?`, filename); err != nil {
		return err
	}
	return tx.Commit()
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
