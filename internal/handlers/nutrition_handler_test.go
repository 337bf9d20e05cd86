package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
)

type stubNutritionStore struct {
	entries map[int64]*models.NutritionEntry
	nextID  int64
}

func newStubNutritionStore() *stubNutritionStore {
	return &stubNutritionStore{entries: make(map[int64]*models.NutritionEntry)}
}

func (s *stubNutritionStore) Create(_ context.Context, entry *models.NutritionEntry) error {
	s.nextID++
	entry.ID = s.nextID
	s.entries[entry.ID] = entry
	return nil
}

func (s *stubNutritionStore) ListAll(_ context.Context) ([]models.NutritionEntry, error) {
	entries := make([]models.NutritionEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, *entry)
	}
	return entries, nil
}

func (s *stubNutritionStore) GetByID(_ context.Context, id int64) (*models.NutritionEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return entry, nil
}

func (s *stubNutritionStore) Update(_ context.Context, entry *models.NutritionEntry) error {
	if _, ok := s.entries[entry.ID]; !ok {
		return pgx.ErrNoRows
	}
	s.entries[entry.ID] = entry
	return nil
}

func (s *stubNutritionStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.entries[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.entries, id)
	return nil
}

func newNutritionTestApp(store *stubNutritionStore) *fiber.App {
	handler := NewNutritionHandler(store)
	app := fiber.New()
	app.Post("/nutrition", handler.CreateEntry)
	app.Get("/nutrition", handler.ListEntries)
	app.Get("/nutrition/:id", handler.GetEntry)
	app.Put("/nutrition/:id", handler.UpdateEntry)
	app.Delete("/nutrition/:id", handler.DeleteEntry)
	return app
}

const oatsBody = `{"name":"Overnight oats","ingredients":"oats, milk, berries","preparation_time":5,"calories":420,"category":"breakfast","goal_category":"muscle gain"}`

func TestNutritionEntryLifecycle(t *testing.T) {
	store := newStubNutritionStore()
	app := newNutritionTestApp(store)

	resp := performJSON(t, app, http.MethodPost, "/nutrition", oatsBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created models.NutritionEntry
	decodeBody(t, resp, &created)
	if created.ID != 1 || created.Calories != 420 {
		t.Fatalf("unexpected entry %+v", created)
	}

	resp = performJSON(t, app, http.MethodPut, "/nutrition/1", `{"name":"Overnight oats","ingredients":"oats, yogurt","preparation_time":5,"calories":380,"category":"breakfast","goal_category":"weight loss"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if store.entries[1].GoalCategory != "weight loss" {
		t.Fatalf("expected updated goal category, got %q", store.entries[1].GoalCategory)
	}

	resp = performJSON(t, app, http.MethodDelete, "/nutrition/1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp = performJSON(t, app, http.MethodGet, "/nutrition/1", "")
	expectError(t, resp, http.StatusNotFound, "Nutrition entry not found")
}

func TestCreateNutritionEntryRequiresFields(t *testing.T) {
	store := newStubNutritionStore()
	app := newNutritionTestApp(store)

	resp := performJSON(t, app, http.MethodPost, "/nutrition", `{"name":"Salad"}`)
	expectError(t, resp, http.StatusBadRequest, "name, ingredients, category and goal_category are required")

	resp = performJSON(t, app, http.MethodPost, "/nutrition", `{"name":"Salad","ingredients":"greens","calories":-10,"category":"lunch","goal_category":"weight loss"}`)
	expectError(t, resp, http.StatusBadRequest, "preparation_time and calories must not be negative")

	if len(store.entries) != 0 {
		t.Fatalf("expected no inserts, got %d", len(store.entries))
	}
}

func TestUpdateUnknownNutritionEntry(t *testing.T) {
	app := newNutritionTestApp(newStubNutritionStore())

	resp := performJSON(t, app, http.MethodPut, "/nutrition/9", oatsBody)
	expectError(t, resp, http.StatusNotFound, "Nutrition entry not found")

	resp = performJSON(t, app, http.MethodGet, "/nutrition/abc", "")
	expectError(t, resp, http.StatusBadRequest, "Invalid nutrition id")
}
