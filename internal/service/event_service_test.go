package service

import (
	"context"
	"testing"
	"time"

	"github.com/fieldsuite/admin-service/internal/domain"
)

func newEventFixture() (*EventService, *fakeEventRepo, *fakeBranchRepo) {
	eventsRepo := newFakeEventRepo()
	branches := newFakeBranchRepo()
	_ = branches.Create(context.Background(), &domain.Branch{
		ID: "brn_1", ClientID: "cli_1", TenantID: "ten_1", Name: "Main",
	})
	svc := NewEventService(eventsRepo, branches, nil)
	return svc, eventsRepo, branches
}

func TestEventCreateRejectsInvertedTimes(t *testing.T) {
	svc, _, _ := newEventFixture()
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}
	now := time.Now()

	_, err := svc.Create(context.Background(), admin, EventCreateInput{
		BranchID:  "brn_1",
		Name:      "Opening",
		StartTime: now.Add(2 * time.Hour),
		EndTime:   now.Add(time.Hour),
	})
	if code := domainErrCode(t, err); code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %s", code)
	}
}

func TestEventCreateDerivesScopeFromBranch(t *testing.T) {
	svc, _, _ := newEventFixture()
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}
	now := time.Now()

	event, err := svc.Create(context.Background(), admin, EventCreateInput{
		BranchID:  "brn_1",
		Name:      "Opening",
		StartTime: now,
		EndTime:   now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.TenantID != "ten_1" || event.ClientID != "cli_1" {
		t.Fatalf("expected scope derived from branch, got %+v", event)
	}
	if event.Status != domain.EventStatusScheduled {
		t.Fatalf("expected scheduled, got %s", event.Status)
	}
}

func TestEventStatusLifecycle(t *testing.T) {
	cases := []struct {
		from domain.EventStatus
		to   domain.EventStatus
		ok   bool
	}{
		{domain.EventStatusScheduled, domain.EventStatusOngoing, true},
		{domain.EventStatusScheduled, domain.EventStatusCancelled, true},
		{domain.EventStatusScheduled, domain.EventStatusCompleted, false},
		{domain.EventStatusOngoing, domain.EventStatusCompleted, true},
		{domain.EventStatusOngoing, domain.EventStatusScheduled, false},
		{domain.EventStatusCompleted, domain.EventStatusOngoing, false},
		{domain.EventStatusCancelled, domain.EventStatusScheduled, false},
	}
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}
	now := time.Now()

	for _, tc := range cases {
		svc, eventsRepo, _ := newEventFixture()
		_ = eventsRepo.Create(context.Background(), &domain.Event{
			ID: "evt_1", TenantID: "ten_1", ClientID: "cli_1", BranchID: "brn_1",
			Name: "Opening", Status: tc.from, StartTime: now, EndTime: now.Add(time.Hour),
		})
		to := tc.to
		_, err := svc.Update(context.Background(), admin, "evt_1", EventUpdateInput{Status: &to})
		if tc.ok && err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.ok {
			if code := domainErrCode(t, err); code != "INVALID_STATUS" {
				t.Errorf("%s -> %s: expected INVALID_STATUS, got %s", tc.from, tc.to, code)
			}
		}
	}
}
