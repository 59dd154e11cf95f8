package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/jordanlanch/leaddesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadHandler_Create(t *testing.T) {
	t.Run("Success - defaults and envelope", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(http.MethodPost, "/leads", `{"name":"Sarah Parker","email":"sarah@example.com","score":40,"tags":["Interested"," Interested ",""]}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		resp := decode[envelope[models.Lead]](t, rec)
		assert.Equal(t, "success", resp.Message)
		assert.NotZero(t, resp.ID)
		assert.Equal(t, resp.ID, resp.Data.ID)
		assert.Equal(t, models.StatusNewLead, resp.Data.Status)
		assert.Equal(t, []string{"Interested"}, resp.Data.Tags.Values())

		detail, err := s.leads.Get(context.Background(), resp.ID)
		require.NoError(t, err)
		require.Len(t, detail.ScoreHistory, 1)
		assert.Equal(t, 40, detail.ScoreHistory[0].Change)
	})

	t.Run("Error - invalid email", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(http.MethodPost, "/leads", `{"name":"Mike","email":"not-an-email"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", decode[models.ErrorResponse](t, rec).Error)
	})

	t.Run("Error - malformed body", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(http.MethodPost, "/leads", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLeadHandler_List(t *testing.T) {
	s := newTestServer(t)
	s.createLead(t, models.CreateLeadRequest{Name: "Sarah Parker", Score: 85, Tags: models.NewTagSet("Interested")})
	s.createLead(t, models.CreateLeadRequest{Name: "Linda Chen", Score: 20, Status: models.StatusUnqualified})
	last := s.createLead(t, models.CreateLeadRequest{Name: "Mike Johnson", Score: 60, Tags: models.NewTagSet("Interested")})

	t.Run("Success - all leads", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/leads", "")
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[envelope[[]models.Lead]](t, rec)
		assert.Equal(t, "success", resp.Message)
		require.Len(t, resp.Data, 3)
		assert.Equal(t, last.ID, resp.Data[0].ID)
	})

	t.Run("Success - filtered", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/leads?tag=interested&min_score=70", "")
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[envelope[[]models.Lead]](t, rec)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "Sarah Parker", resp.Data[0].Name)
	})

	t.Run("Error - non numeric score bound", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/leads?max_score=high", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "max_score must be an integer", decode[models.ErrorResponse](t, rec).Message)
	})
}

func TestLeadHandler_Get(t *testing.T) {
	s := newTestServer(t)
	lead := s.createLead(t, models.CreateLeadRequest{Name: "Kevin Harris", Score: 10})

	t.Run("Success - lead with history", func(t *testing.T) {
		rec := s.do(http.MethodGet, fmt.Sprintf("/leads/%d", lead.ID), "")
		require.Equal(t, http.StatusOK, rec.Code)

		detail := decode[models.LeadDetail](t, rec)
		assert.Equal(t, "Kevin Harris", detail.Name)
		require.Len(t, detail.ScoreHistory, 1)
		assert.Equal(t, models.ReasonInitialScore, detail.ScoreHistory[0].Reason)

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
		assert.Contains(t, raw, "scoreHistory")
		assert.NotContains(t, raw, "score_history")
	})

	t.Run("Error - not found", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/leads/9999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, models.ErrorResponse{Error: "not_found", Message: "Lead not found"}, decode[models.ErrorResponse](t, rec))
	})

	t.Run("Error - invalid id", func(t *testing.T) {
		for _, id := range []string{"abc", "0", "-3"} {
			rec := s.do(http.MethodGet, "/leads/"+id, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, id)
			assert.Equal(t, "invalid_id", decode[models.ErrorResponse](t, rec).Error)
		}
	})
}

func TestLeadHandler_Update(t *testing.T) {
	t.Run("Success - score change writes ledger", func(t *testing.T) {
		s := newTestServer(t)
		lead := s.createLead(t, models.CreateLeadRequest{Name: "Sarah Parker", Score: 50})

		rec := s.do(http.MethodPut, fmt.Sprintf("/leads/%d", lead.ID), `{"score":65,"status":"Qualified"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decode[envelope[any]](t, rec)
		assert.Equal(t, "success", resp.Message)
		assert.Equal(t, int64(1), resp.Changes)
		assert.Equal(t, lead.ID, resp.UpdatedID)

		detail, err := s.leads.Get(context.Background(), lead.ID)
		require.NoError(t, err)
		assert.Equal(t, 65, detail.Score)
		assert.Equal(t, models.StatusQualified, detail.Status)
		require.Len(t, detail.ScoreHistory, 2)
		assert.Equal(t, 15, detail.ScoreHistory[0].Change)
		assert.Equal(t, models.ReasonManualUpdate, detail.ScoreHistory[0].Reason)
	})

	t.Run("Success - deal value cleared by null", func(t *testing.T) {
		s := newTestServer(t)
		deal := 1200.0
		lead := s.createLead(t, models.CreateLeadRequest{Name: "Linda Chen", DealValue: &deal})

		rec := s.do(http.MethodPut, fmt.Sprintf("/leads/%d", lead.ID), `{"deal_value":null}`)
		require.Equal(t, http.StatusOK, rec.Code)

		detail, err := s.leads.Get(context.Background(), lead.ID)
		require.NoError(t, err)
		assert.Nil(t, detail.DealValue)
	})

	t.Run("Success - missing lead reports zero changes", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(http.MethodPut, "/leads/4242", `{"status":"Won"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(0), decode[envelope[any]](t, rec).Changes)
	})

	t.Run("Error - empty body", func(t *testing.T) {
		s := newTestServer(t)
		lead := s.createLead(t, models.CreateLeadRequest{Name: "Mike"})

		rec := s.do(http.MethodPut, fmt.Sprintf("/leads/%d", lead.ID), `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "no fields to update", decode[models.ErrorResponse](t, rec).Message)
	})
}

func TestLeadHandler_Delete(t *testing.T) {
	s := newTestServer(t)
	lead := s.createLead(t, models.CreateLeadRequest{Name: "Emily White"})

	rec := s.do(http.MethodDelete, fmt.Sprintf("/leads/%d", lead.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[envelope[any]](t, rec)
	assert.Equal(t, "deleted", resp.Message)
	assert.Equal(t, int64(1), resp.Changes)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/leads/%d", lead.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), decode[envelope[any]](t, rec).Changes)
}

func TestLeadHandler_Tags(t *testing.T) {
	s := newTestServer(t)
	lead := s.createLead(t, models.CreateLeadRequest{Name: "Sarah Parker", Tags: models.NewTagSet("Interested")})
	path := fmt.Sprintf("/leads/%d/tags", lead.ID)

	rec := s.do(http.MethodPost, path, `{"tag":"Hot Lead"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"Interested", "Hot Lead"}, decode[envelope[[]string]](t, rec).Data)

	rec = s.do(http.MethodDelete, path+"/Hot%20Lead", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Interested"}, decode[envelope[[]string]](t, rec).Data)

	rec = s.do(http.MethodDelete, path+"/Absent", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Interested"}, decode[envelope[[]string]](t, rec).Data)

	rec = s.do(http.MethodPost, path, `{"tag":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/leads/9999/tags", `{"tag":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeadHandler_Bulk(t *testing.T) {
	s := newTestServer(t)
	a := s.createLead(t, models.CreateLeadRequest{Name: "A"})
	b := s.createLead(t, models.CreateLeadRequest{Name: "B", Tags: models.NewTagSet("VIP")})

	rec := s.do(http.MethodPost, "/leads/bulk/status", fmt.Sprintf(`{"ids":[%d,%d,9999],"status":"Cold"}`, a.ID, b.ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(2), decode[envelope[any]](t, rec).Changes)

	rec = s.do(http.MethodPost, "/leads/bulk/tags", fmt.Sprintf(`{"ids":[%d,%d],"tag":"VIP"}`, a.ID, b.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[envelope[any]](t, rec).Changes)

	rec = s.do(http.MethodPost, "/leads/bulk/status", `{"ids":[],"status":"Cold"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
