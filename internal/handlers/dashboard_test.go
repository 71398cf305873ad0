package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/models"
)

// --- Stub services ---

type stubDashboardService struct {
	lastActor models.Actor
	err       error
}

func (s *stubDashboardService) GetDashboard(_ context.Context, actor models.Actor) (*dto.Dashboard, error) {
	s.lastActor = actor
	return &dto.Dashboard{AppName: "SAS Financier"}, s.err
}

func (s *stubDashboardService) SystemStats(_ context.Context, actor models.Actor) (*dto.SystemStats, error) {
	s.lastActor = actor
	return &dto.SystemStats{TotalUsers: 3}, s.err
}

type stubRoleService struct{}

func (stubRoleService) Me(actor models.Actor) (*dto.MeResponse, error) {
	return &dto.MeResponse{UID: actor.UID, Capabilities: actor.Capabilities}, nil
}

// --- Tests ---

func TestGetDashboard_OK(t *testing.T) {
	svc := &stubDashboardService{}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	h.GetDashboard(httptest.NewRecorder(), withActor(httptest.NewRequest(http.MethodGet, "/dashboard", nil), member))

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess with 200, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.lastActor.UID != "memb-1" {
		t.Fatalf("unexpected actor %q", svc.lastActor.UID)
	}
}

func TestGetDashboard_ServiceError(t *testing.T) {
	svc := &stubDashboardService{err: errors.New("db failure")}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	h.GetDashboard(httptest.NewRecorder(), withActor(httptest.NewRequest(http.MethodGet, "/dashboard", nil), member))

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError to be called")
	}
}

func TestSystemStats(t *testing.T) {
	svc := &stubDashboardService{}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	h.SystemStats(httptest.NewRecorder(), withActor(httptest.NewRequest(http.MethodGet, "/admin/stats", nil), treasurer))

	stats, ok := resp.writeSuccessData.(*dto.SystemStats)
	if !ok || stats.TotalUsers != 3 {
		t.Fatalf("unexpected payload %#v", resp.writeSuccessData)
	}
}

func TestMeReturnsCapabilities(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewRoleHandlers(&Deps{ResponseHandler: resp, RoleSvc: stubRoleService{}})

	h.Me(httptest.NewRecorder(), withActor(httptest.NewRequest(http.MethodGet, "/me", nil), treasurer))

	me, ok := resp.writeSuccessData.(*dto.MeResponse)
	if !ok || !me.IsTresorier || !me.IsAdmin {
		t.Fatalf("unexpected payload %#v", resp.writeSuccessData)
	}
}
