package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Submitter,Typeahead
//go:generate mockgen -source=dashboard.go -destination=mocks/dashboard_mocks.go -package=mocks SessionReader,ConnectivityChecker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"voterfinder/internal/platform/kv"
	"voterfinder/internal/recent"
	"voterfinder/internal/search/handler/mocks"
	"voterfinder/internal/search/models"
	"voterfinder/internal/search/service"
	"voterfinder/internal/transliteration"
	votermodels "voterfinder/internal/voter/models"
	"voterfinder/internal/voter/pager"
	voterservice "voterfinder/internal/voter/service"
	"voterfinder/pkg/testutil"
)

type SearchHandlerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	submitter *mocks.MockSubmitter
	typeahead *mocks.MockTypeahead
	recent    *recent.Log
	router    chi.Router
}

func TestSearchHandlerSuite(t *testing.T) {
	suite.Run(t, new(SearchHandlerSuite))
}

func (s *SearchHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.submitter = mocks.NewMockSubmitter(s.ctrl)
	s.typeahead = mocks.NewMockTypeahead(s.ctrl)
	s.recent = recent.New(kv.NewInMemory())
	engine := transliteration.NewEngine(transliteration.DefaultTable())
	h := New(s.submitter, s.typeahead, engine, s.recent, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *SearchHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *SearchHandlerSuite) serve(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return testutil.Serve(s.router, testutil.WithClient(req, "c1"))
}

func votersNamed(n int) []votermodels.Voter {
	voters := make([]votermodels.Voter, n)
	for i := range voters {
		voters[i] = votermodels.Voter{ID: fmt.Sprint(i + 1), SerialNumber: i + 1, Name: "राम"}
	}
	return voters
}

// =============================================================================
// GET /api/voters
// =============================================================================

func (s *SearchHandlerSuite) TestSearchPages() {
	s.submitter.EXPECT().Submit(gomock.Any(), "c1", "राम").Return(service.Submission{
		SearchOutcome: voterservice.SearchOutcome{Term: "राम", Voters: votersNamed(20), Searched: true},
		Recent:        []string{"राम"},
	})

	rec := s.serve(http.MethodGet, "/api/voters?q=%E0%A4%B0%E0%A4%BE%E0%A4%AE&size=6&page=2&view=list", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	resp := testutil.DecodeJSON[SearchResponse](s.T(), rec)
	s.True(resp.Searched)
	s.Len(resp.Voters, 6)
	s.Equal("7", resp.Voters[0].ID)
	s.Equal(pager.State{
		Page: 2, Size: 6, View: pager.ViewList, Total: 20, TotalPages: 4,
		Start: 7, End: 12, HasNext: true, HasPrev: true,
		Summary: "Showing 7 to 12 of 20 voters",
	}, resp.Pager)
	s.Equal([]string{"राम"}, resp.Recent)
	s.Empty(resp.Warning)
}

func (s *SearchHandlerSuite) TestSearchUsesTypeaheadTermWhenQueryAbsent() {
	term := models.NewSearchTerm()
	term.Raw = "shiv"
	term.Devanagari = "शिव"
	s.typeahead.EXPECT().Current("c1").Return(term)
	s.submitter.EXPECT().Submit(gomock.Any(), "c1", "शिव").Return(service.Submission{
		SearchOutcome: voterservice.SearchOutcome{Term: "शिव", Voters: []votermodels.Voter{}, Searched: true},
	})

	rec := s.serve(http.MethodGet, "/api/voters", "")
	s.Equal(http.StatusOK, rec.Code)
	var resp SearchResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("No voters found", resp.Pager.Summary)
	s.NotNil(resp.Voters)
}

func (s *SearchHandlerSuite) TestSearchStoreFailureWarns() {
	s.submitter.EXPECT().Submit(gomock.Any(), "c1", "ram").Return(service.Submission{
		SearchOutcome: voterservice.SearchOutcome{
			Term: "ram", Voters: []votermodels.Voter{}, Searched: true, Failure: voterservice.FailureStore,
		},
	})

	rec := s.serve(http.MethodGet, "/api/voters?q=ram", "")
	s.Equal(http.StatusOK, rec.Code)
	var resp SearchResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(voterservice.ConnectivityWarning, resp.Warning)
	s.Empty(resp.Voters)
}

func (s *SearchHandlerSuite) TestSearchPageBeyondRangeIsClamped() {
	s.submitter.EXPECT().Submit(gomock.Any(), "c1", "ram").Return(service.Submission{
		SearchOutcome: voterservice.SearchOutcome{Term: "ram", Voters: votersNamed(10), Searched: true},
	})

	rec := s.serve(http.MethodGet, "/api/voters?q=ram&page=50", "")
	var resp SearchResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(2, resp.Pager.Page)
	s.Len(resp.Voters, 1)
}

func (s *SearchHandlerSuite) TestSearchRejectsBadPaging() {
	for _, query := range []string{"size=7", "size=abc", "view=table", "page=two"} {
		if strings.HasPrefix(query, "page") {
			s.submitter.EXPECT().Submit(gomock.Any(), "c1", "ram").Return(service.Submission{})
		}
		rec := s.serve(http.MethodGet, "/api/voters?q=ram&"+query, "")
		s.Equal(http.StatusBadRequest, rec.Code, query)
	}
}

// =============================================================================
// GET /api/transliterate
// =============================================================================

func (s *SearchHandlerSuite) TestTransliterate() {
	rec := s.serve(http.MethodGet, "/api/transliterate?text=ram", "")
	s.Equal(http.StatusOK, rec.Code)
	var result transliteration.Result
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &result))
	s.Equal("राम", result.Text)
	s.Equal(transliteration.SourceFallback, result.Source)
}

func (s *SearchHandlerSuite) TestTransliterateEmpty() {
	rec := s.serve(http.MethodGet, "/api/transliterate", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"source":"none"`)
}

// =============================================================================
// /api/typeahead
// =============================================================================

func (s *SearchHandlerSuite) TestType() {
	term := models.SearchTerm{Raw: "ram", UseTransliteration: true, Seq: 3, Pending: true}
	s.typeahead.EXPECT().Type(gomock.Any(), "c1", "ram").Return(term)

	rec := s.serve(http.MethodPut, "/api/typeahead", `{"raw":"ram"}`)
	s.Equal(http.StatusAccepted, rec.Code)
	var got models.SearchTerm
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Equal(term, got)
}

func (s *SearchHandlerSuite) TestTypeRejectsUnknownFields() {
	rec := s.serve(http.MethodPut, "/api/typeahead", `{"text":"ram"}`)
	testutil.AssertError(s.T(), rec, http.StatusBadRequest, "bad_request")
}

func (s *SearchHandlerSuite) TestGetTerm() {
	s.typeahead.EXPECT().Current("c1").Return(models.SearchTerm{Raw: "ram", Devanagari: "राम", UseTransliteration: true})

	rec := s.serve(http.MethodGet, "/api/typeahead", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"devanagari":"राम"`)
}

func (s *SearchHandlerSuite) TestToggle() {
	s.typeahead.EXPECT().Toggle(gomock.Any(), "c1", false).Return(models.SearchTerm{Raw: "ram"})

	rec := s.serve(http.MethodPut, "/api/typeahead/mode", `{"useTransliteration":false}`)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"useTransliteration":false`)
}

func (s *SearchHandlerSuite) TestClearTerm() {
	s.typeahead.EXPECT().Clear("c1")

	rec := s.serve(http.MethodDelete, "/api/typeahead", "")
	s.Equal(http.StatusNoContent, rec.Code)
}

// =============================================================================
// /api/recent
// =============================================================================

func (s *SearchHandlerSuite) TestRecent() {
	ctx := context.Background()
	for _, term := range []string{"राम", "शिव", "राम"} {
		_, err := s.recent.Add(ctx, "c1", term)
		s.Require().NoError(err)
	}

	rec := s.serve(http.MethodGet, "/api/recent", "")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"terms":["शिव","राम"]}`, rec.Body.String())

	rec = s.serve(http.MethodDelete, "/api/recent", "")
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.serve(http.MethodGet, "/api/recent", "")
	s.JSONEq(`{"terms":[]}`, rec.Body.String())
}
