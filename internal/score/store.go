package score

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"git.lost.host/meutraa/eots/internal/game"
)

// Store persists finalized results. The session engine only ever sees this
// interface; persistence lives outside the core.
type Store interface {
	Save(chart *game.Chart, r Results) error
	Load(chart *game.Chart) ([]History, error)
	Close() error
}

type History struct {
	ID     string
	Sum    string
	Played time.Time
	Results
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return nil, errors.Wrap(err, "unable to open score database")
	}

	initStatement := `
	create table if not exists results
	  (
		  id text not null primary key,
		  sum text,
		  played integer,
		  score real,
		  accuracy real,
		  grade integer,
		  max_combo integer,
		  judgments blob
	  );
	`
	if _, err := db.Exec(initStatement); nil != err {
		db.Close()
		return nil, errors.Wrap(err, "unable to create results table")
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// HashChart identifies a chart by its note content, so edited charts get a
// fresh history.
func HashChart(c *game.Chart) string {
	h := sha256.New()
	var buf [8]byte
	for i := range c.Notes {
		n := &c.Notes[i]
		binary.LittleEndian.PutUint64(buf[:], uint64(n.Time))
		h.Write(buf[:])
		h.Write([]byte{byte(n.Kind), n.Index, n.Pair[0], n.Pair[1]})
		binary.LittleEndian.PutUint64(buf[:], uint64(n.TimeEnd))
		h.Write(buf[:])
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func (s *SQLStore) Save(chart *game.Chart, r Results) error {
	counts, err := json.Marshal(r.Judgments)
	if nil != err {
		return errors.Wrap(err, "unable to marshal judgment counts")
	}
	_, err = s.db.Exec(
		"insert into results(id, sum, played, score, accuracy, grade, max_combo, judgments) values(?, ?, ?, ?, ?, ?, ?, ?)",
		uuid.New().String(), HashChart(chart), time.Now().Unix(),
		r.Score, r.Accuracy, int(r.Grade), r.MaxCombo, counts,
	)
	return errors.Wrap(err, "unable to save results")
}

func (s *SQLStore) Load(chart *game.Chart) ([]History, error) {
	rows, err := s.db.Query(
		"select id, sum, played, score, accuracy, grade, max_combo, judgments from results where sum = ? order by played desc",
		HashChart(chart),
	)
	if nil != err {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "unable to load results")
	}
	defer rows.Close()

	histories := []History{}
	for rows.Next() {
		var h History
		var played int64
		var grade int
		var counts []byte
		if err := rows.Scan(&h.ID, &h.Sum, &played, &h.Score, &h.Accuracy, &grade, &h.MaxCombo, &counts); nil != err {
			return nil, errors.Wrap(err, "unable to scan result row")
		}
		if err := json.Unmarshal(counts, &h.Judgments); nil != err {
			continue
		}
		h.Played = time.Unix(played, 0)
		h.Grade = Grade(grade)
		h.FullCombo = h.Judgments[Miss] == 0
		h.PerfectFullCombo = h.FullCombo && h.Judgments[Great] == 0 && h.Judgments[Decent] == 0
		h.TopFullCombo = h.PerfectFullCombo && h.Judgments[Excellent] == 0
		histories = append(histories, h)
	}
	return histories, rows.Err()
}
