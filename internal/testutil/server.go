// Package testutil hosts a fake TrpServer for tests: an httptest server
// speaking just enough of the Transkribus REST dialect for the dumper
// pipeline (XML login, JSON collection/document listings, PAGE XML
// transcripts).
package testutil

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
)

// Transcript is one transcript version served by the fake.
type Transcript struct {
	Timestamp int64
	Text      string
	HasText   bool // false serves PAGE XML without any TextEquiv content
	Status    string
	UserName  string
	NrOfLines int
	Broken    bool // true serves HTTP 500 for this transcript
}

// Page is one page of a fake document.
type Page struct {
	ImgFileName string
	Transcripts []Transcript
}

// Document is one document of a fake collection.
type Document struct {
	ID    int
	Title string
	Pages []Page
}

// Collection is a named document group known to the fake server.
type Collection struct {
	ID          int
	Name        string
	Description string
	Documents   []Document
}

// Server is a fake TrpServer. Configure the exported fields before issuing
// requests against URL.
type Server struct {
	*httptest.Server

	Username  string
	Password  string
	SessionID string

	Collections []Collection

	// FailCollections makes GET /collections answer 500.
	FailCollections bool
	// FailFullDoc makes every fulldoc request answer 500.
	FailFullDoc bool

	LoginCalls atomic.Int64
}

// NewServer starts a fake TrpServer accepting the given credentials. It is
// shut down automatically when the test finishes.
func NewServer(t *testing.T, username, password string) *Server {
	t.Helper()
	s := &Server{
		Username:  username,
		Password:  password,
		SessionID: "F00DD00D1234",
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /collections", s.authed(s.handleCollections))
	mux.HandleFunc("GET /collections/{col}/list", s.authed(s.handleList))
	mux.HandleFunc("GET /collections/{col}/{doc}/fulldoc", s.authed(s.handleFullDoc))
	mux.HandleFunc("GET /pagexml/{col}/{doc}/{page}/{ts}", s.authed(s.handlePageXML))
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.LoginCalls.Add(1)
	if r.FormValue("user") != s.Username || r.FormValue("pw") != s.Password {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	fmt.Fprintf(w, "<trpUserLogin><userId>42</userId><sessionId>%s</sessionId></trpUserLogin>", s.SessionID)
}

// authed rejects requests that do not carry the session cookie.
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Cookie"), "JSESSIONID="+s.SessionID) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleCollections(w http.ResponseWriter, r *http.Request) {
	if s.FailCollections {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	cols := make([]map[string]any, 0, len(s.Collections))
	for _, c := range s.Collections {
		cols = append(cols, map[string]any{
			"colId":       c.ID,
			"colName":     c.Name,
			"description": c.Description,
		})
	}
	writeJSON(w, map[string]any{"trpCollection": cols})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	col, ok := s.collection(r.PathValue("col"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	docs := make([]map[string]any, 0, len(col.Documents))
	for _, d := range col.Documents {
		docs = append(docs, map[string]any{"docId": d.ID, "title": d.Title})
	}
	writeJSON(w, docs)
}

func (s *Server) handleFullDoc(w http.ResponseWriter, r *http.Request) {
	if s.FailFullDoc {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	col, ok := s.collection(r.PathValue("col"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	docID, _ := strconv.Atoi(r.PathValue("doc"))
	for _, d := range col.Documents {
		if d.ID != docID {
			continue
		}
		pages := make([]map[string]any, 0, len(d.Pages))
		for pi, p := range d.Pages {
			transcripts := make([]map[string]any, 0, len(p.Transcripts))
			for ti, ts := range p.Transcripts {
				transcripts = append(transcripts, map[string]any{
					"timestamp": ts.Timestamp,
					"url":       fmt.Sprintf("%s/pagexml/%d/%d/%d/%d", s.URL, col.ID, d.ID, pi, ti),
					"status":    ts.Status,
					"userName":  ts.UserName,
					"nrOfLines": ts.NrOfLines,
				})
			}
			pages = append(pages, map[string]any{
				"imgFileName": p.ImgFileName,
				"tsList":      map[string]any{"transcripts": transcripts},
			})
		}
		writeJSON(w, map[string]any{"pageList": map[string]any{"pages": pages}})
		return
	}
	http.NotFound(w, r)
}

func (s *Server) handlePageXML(w http.ResponseWriter, r *http.Request) {
	col, ok := s.collection(r.PathValue("col"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	docID, _ := strconv.Atoi(r.PathValue("doc"))
	pageIdx, _ := strconv.Atoi(r.PathValue("page"))
	tsIdx, _ := strconv.Atoi(r.PathValue("ts"))
	for _, d := range col.Documents {
		if d.ID != docID {
			continue
		}
		if pageIdx >= len(d.Pages) || tsIdx >= len(d.Pages[pageIdx].Transcripts) {
			break
		}
		ts := d.Pages[pageIdx].Transcripts[tsIdx]
		if ts.Broken {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		if !ts.HasText {
			fmt.Fprint(w, "<PcGts><Page><TextRegion><TextEquiv><Unicode></Unicode></TextEquiv></TextRegion></Page></PcGts>")
			return
		}
		var escaped strings.Builder
		_ = xml.EscapeText(&escaped, []byte(ts.Text))
		fmt.Fprintf(w, "<PcGts><Page><TextRegion><TextEquiv><Unicode>%s</Unicode></TextEquiv></TextRegion></Page></PcGts>", escaped.String())
		return
	}
	http.NotFound(w, r)
}

func (s *Server) collection(id string) (Collection, bool) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return Collection{}, false
	}
	for _, c := range s.Collections {
		if c.ID == n {
			return c, true
		}
	}
	return Collection{}, false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
