package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/assessor/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		topic TEXT NOT NULL,
		subtopic TEXT NOT NULL DEFAULT '',
		difficulty TEXT NOT NULL DEFAULT 'medium',
		question_text TEXT NOT NULL,
		options TEXT NOT NULL DEFAULT '[]',
		correct_answer TEXT NOT NULL DEFAULT '',
		expected_output TEXT NOT NULL DEFAULT '',
		keywords TEXT NOT NULL DEFAULT '[]',
		marks REAL NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		test_title TEXT NOT NULL DEFAULT '',
		questions TEXT NOT NULL,
		submitted_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_user ON submissions(user_id);

	CREATE TABLE IF NOT EXISTS feedback_reports (
		id TEXT PRIMARY KEY,
		submission_id TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL,
		test_title TEXT NOT NULL DEFAULT '',
		report TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (submission_id) REFERENCES submissions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_feedback_reports_user ON feedback_reports(user_id, created_at);

	CREATE TABLE IF NOT EXISTS exam_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

const questionColumns = `id, type, topic, subtopic, difficulty, question_text, options, correct_answer, expected_output, keywords, marks`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(r rowScanner) (model.Question, error) {
	var (
		q                 model.Question
		options, keywords string
	)
	if err := r.Scan(&q.ID, &q.Type, &q.Topic, &q.Subtopic, &q.Difficulty, &q.Text,
		&options, &q.CorrectAnswer, &q.ExpectedOutput, &keywords, &q.Marks); err != nil {
		return q, err
	}
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return q, fmt.Errorf("decode options of question %d: %w", q.ID, err)
	}
	if err := json.Unmarshal([]byte(keywords), &q.Keywords); err != nil {
		return q, fmt.Errorf("decode keywords of question %d: %w", q.ID, err)
	}
	return q, nil
}

func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

// InsertQuestion stores a question.
func (s *Store) InsertQuestion(q model.Question) (int64, error) {
	options, err := encodeList(q.Options)
	if err != nil {
		return 0, fmt.Errorf("encode options: %w", err)
	}
	keywords, err := encodeList(q.Keywords)
	if err != nil {
		return 0, fmt.Errorf("encode keywords: %w", err)
	}
	if q.Difficulty == "" {
		q.Difficulty = model.DifficultyMedium
	}
	res, err := s.db.Exec(
		`INSERT INTO questions (type, topic, subtopic, difficulty, question_text, options, correct_answer, expected_output, keywords, marks)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.Type.Normalize(), q.Topic, q.Subtopic, q.Difficulty, q.Text,
		options, q.CorrectAnswer, q.ExpectedOutput, keywords, q.Marks,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetQuestion returns a question by ID, or nil if it does not exist.
func (s *Store) GetQuestion(id int64) (*model.Question, error) {
	q, err := scanQuestion(s.db.QueryRow(
		`SELECT `+questionColumns+` FROM questions WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ListQuestionsFiltered returns questions matching the given filters.
// Empty strings mean no filtering on that field.
func (s *Store) ListQuestionsFiltered(topic, difficulty, qtype string) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE 1=1`
	var args []any
	if topic != "" {
		query += ` AND topic = ?`
		args = append(args, topic)
	}
	if difficulty != "" {
		query += ` AND difficulty = ?`
		args = append(args, difficulty)
	}
	if qtype != "" {
		query += ` AND type = ?`
		args = append(args, model.QuestionType(qtype).Normalize())
	}
	query += ` ORDER BY id`
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListQuestions returns all questions.
func (s *Store) ListQuestions() ([]model.Question, error) {
	return s.ListQuestionsFiltered("", "", "")
}

// QuestionCount returns the number of questions in the database.
func (s *Store) QuestionCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&count)
	return count, err
}

// CreateSubmission stores the answered questions and returns the
// submission with its generated ID and timestamp.
func (s *Store) CreateSubmission(userID, testTitle string, questions []model.AnsweredQuestion) (model.Submission, error) {
	sub := model.Submission{
		ID:          uuid.NewString(),
		UserID:      userID,
		TestTitle:   testTitle,
		Questions:   questions,
		SubmittedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(questions)
	if err != nil {
		return sub, fmt.Errorf("encode questions: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO submissions (id, user_id, test_title, questions, submitted_at) VALUES (?, ?, ?, ?, ?)`,
		sub.ID, sub.UserID, sub.TestTitle, string(data), sub.SubmittedAt,
	)
	if err != nil {
		return sub, fmt.Errorf("insert submission: %w", err)
	}
	return sub, nil
}

// GetSubmission returns a submission by ID, or nil if it does not exist.
func (s *Store) GetSubmission(id string) (*model.Submission, error) {
	var (
		sub  model.Submission
		data string
	)
	err := s.db.QueryRow(
		`SELECT id, user_id, test_title, questions, submitted_at FROM submissions WHERE id = ?`, id,
	).Scan(&sub.ID, &sub.UserID, &sub.TestTitle, &data, &sub.SubmittedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &sub.Questions); err != nil {
		return nil, fmt.Errorf("decode submission %s: %w", id, err)
	}
	return &sub, nil
}

// UpsertReport inserts or replaces the report for a submission. The
// report ID and creation time survive a replacement.
func (s *Store) UpsertReport(submissionID, testTitle string, report model.FeedbackReport) (model.StoredReport, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return model.StoredReport{}, fmt.Errorf("encode report: %w", err)
	}
	now := time.Now().UTC()
	_, err = s.db.Exec(
		`INSERT INTO feedback_reports (id, submission_id, user_id, test_title, report, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(submission_id) DO UPDATE SET test_title = ?, report = ?, updated_at = ?`,
		uuid.NewString(), submissionID, report.UserID, testTitle, string(data), now, now,
		testTitle, string(data), now,
	)
	if err != nil {
		return model.StoredReport{}, fmt.Errorf("upsert report: %w", err)
	}
	stored, err := s.getReportWhere(`submission_id = ?`, submissionID)
	if err != nil {
		return model.StoredReport{}, err
	}
	if stored == nil {
		return model.StoredReport{}, fmt.Errorf("report for submission %s vanished after upsert", submissionID)
	}
	return *stored, nil
}

const reportColumns = `id, submission_id, test_title, report, created_at, updated_at`

func scanReport(r rowScanner) (model.StoredReport, error) {
	var (
		sr   model.StoredReport
		data string
	)
	if err := r.Scan(&sr.ID, &sr.SubmissionID, &sr.TestTitle, &data, &sr.CreatedAt, &sr.UpdatedAt); err != nil {
		return sr, err
	}
	if err := json.Unmarshal([]byte(data), &sr.Report); err != nil {
		return sr, fmt.Errorf("decode report %s: %w", sr.ID, err)
	}
	return sr, nil
}

func (s *Store) getReportWhere(cond string, arg any) (*model.StoredReport, error) {
	sr, err := scanReport(s.db.QueryRow(`SELECT `+reportColumns+` FROM feedback_reports WHERE `+cond, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

// GetReport returns a stored report by ID, or nil if it does not exist.
func (s *Store) GetReport(id string) (*model.StoredReport, error) {
	return s.getReportWhere(`id = ?`, id)
}

// ListReportsForUser returns the user's most recent reports, newest first.
// A non-positive limit returns all of them.
func (s *Store) ListReportsForUser(userID string, limit int) ([]model.StoredReport, error) {
	query := `SELECT ` + reportColumns + ` FROM feedback_reports WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var reports []model.StoredReport
	for rows.Next() {
		sr, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, sr)
	}
	return reports, rows.Err()
}

// ListReports returns every stored report, oldest first.
func (s *Store) ListReports() ([]model.StoredReport, error) {
	rows, err := s.db.Query(`SELECT ` + reportColumns + ` FROM feedback_reports ORDER BY created_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var reports []model.StoredReport
	for rows.Next() {
		sr, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, sr)
	}
	return reports, rows.Err()
}

// ListDistinctTopics returns the topics present in the question bank,
// sorted alphabetically.
func (s *Store) ListDistinctTopics() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT topic FROM questions ORDER BY topic`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var topics []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}
