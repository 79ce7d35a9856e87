package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"todoflow/internal/database"
	"todoflow/internal/models"
)

// Integration tests against a real MongoDB. Set MONGODB_TEST_URI to run, e.g.
//
//	MONGODB_TEST_URI=mongodb://localhost:27017/todoflow_test go test ./internal/services/
//
// Each test uses a unique user id, so a shared test database is fine.

func setupStore(t *testing.T) (*database.MongoDB, context.Context) {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set, skipping integration test")
	}

	db, err := database.NewMongoDB(uri)
	if err != nil {
		t.Fatalf("failed to connect to test MongoDB: %v", err)
	}

	ctx := context.Background()
	if err := db.Initialize(ctx); err != nil {
		t.Fatalf("failed to initialize test database: %v", err)
	}

	t.Cleanup(func() { db.Close(context.Background()) })
	return db, ctx
}

func testUserID(t *testing.T) string {
	return fmt.Sprintf("test-%s-%d", t.Name(), time.Now().UnixNano())
}

func mustCreateProject(t *testing.T, ctx context.Context, svc *ProjectService, userID, name string) *models.Project {
	t.Helper()
	project, err := svc.Create(ctx, userID, &models.CreateProjectRequest{Name: name, Color: "#ff0000"})
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return project
}

func mustCreateTask(t *testing.T, ctx context.Context, svc *TaskService, userID, projectID, title string) *models.Task {
	t.Helper()
	task, err := svc.Create(ctx, userID, &models.CreateTaskRequest{Title: title, ProjectID: projectID})
	if err != nil {
		t.Fatalf("failed to create task %q: %v", title, err)
	}
	return task
}

func TestTaskOrdering_MonotonicPerUser(t *testing.T) {
	db, ctx := setupStore(t)
	projects := NewProjectService(db)
	tasks := NewTaskService(db)
	userID := testUserID(t)

	project := mustCreateProject(t, ctx, projects, userID, "Ordering")

	first := mustCreateTask(t, ctx, tasks, userID, project.ID.Hex(), "first")
	second := mustCreateTask(t, ctx, tasks, userID, project.ID.Hex(), "second")
	third := mustCreateTask(t, ctx, tasks, userID, project.ID.Hex(), "third")

	if first.Order != 0 {
		t.Errorf("first task order = %d, want 0", first.Order)
	}
	if second.Order <= first.Order || third.Order <= second.Order {
		t.Errorf("orders not strictly increasing: %d, %d, %d", first.Order, second.Order, third.Order)
	}

	// Another user's first task starts from 0 again
	otherUser := testUserID(t) + "-other"
	otherProject := mustCreateProject(t, ctx, projects, otherUser, "Other")
	otherTask := mustCreateTask(t, ctx, tasks, otherUser, otherProject.ID.Hex(), "foreign-first")
	if otherTask.Order != 0 {
		t.Errorf("other user's first task order = %d, want 0", otherTask.Order)
	}
}

func TestTaskOwnershipGuard(t *testing.T) {
	db, ctx := setupStore(t)
	projects := NewProjectService(db)
	tasks := NewTaskService(db)

	owner := testUserID(t)
	intruder := owner + "-intruder"

	project := mustCreateProject(t, ctx, projects, owner, "Private")
	task := mustCreateTask(t, ctx, tasks, owner, project.ID.Hex(), "secret")

	// Reads of a foreign task report not found, never access denied
	if _, err := tasks.Get(ctx, intruder, task.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign Get error = %v, want ErrNotFound", err)
	}

	// Mutations of a foreign task report access denied
	if _, err := tasks.ToggleComplete(ctx, intruder, task.ID.Hex()); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("foreign ToggleComplete error = %v, want ErrAccessDenied", err)
	}
	if err := tasks.Delete(ctx, intruder, task.ID.Hex()); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("foreign Delete error = %v, want ErrAccessDenied", err)
	}

	// Creating a task in a foreign project is denied
	if _, err := tasks.Create(ctx, intruder, &models.CreateTaskRequest{
		Title:     "planted",
		ProjectID: project.ID.Hex(),
	}); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("foreign project Create error = %v, want ErrAccessDenied", err)
	}
}

func TestToggleComplete_RoundTrip(t *testing.T) {
	db, ctx := setupStore(t)
	projects := NewProjectService(db)
	tasks := NewTaskService(db)
	userID := testUserID(t)

	project := mustCreateProject(t, ctx, projects, userID, "Toggle")
	task := mustCreateTask(t, ctx, tasks, userID, project.ID.Hex(), "flip-me")

	completed, err := tasks.ToggleComplete(ctx, userID, task.ID.Hex())
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if completed.Status != models.TaskStatusCompleted || completed.CompletedAt == nil {
		t.Errorf("after first toggle: status=%q completedAt=%v", completed.Status, completed.CompletedAt)
	}

	reopened, err := tasks.ToggleComplete(ctx, userID, task.ID.Hex())
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if reopened.Status != models.TaskStatusActive || reopened.CompletedAt != nil {
		t.Errorf("after second toggle: status=%q completedAt=%v", reopened.Status, reopened.CompletedAt)
	}
}

func TestBulkReorder_SkipsForeignAndMissing(t *testing.T) {
	db, ctx := setupStore(t)
	projects := NewProjectService(db)
	tasks := NewTaskService(db)

	owner := testUserID(t)
	other := owner + "-other"

	project := mustCreateProject(t, ctx, projects, owner, "Board")
	mine := mustCreateTask(t, ctx, tasks, owner, project.ID.Hex(), "mine")

	foreignProject := mustCreateProject(t, ctx, projects, other, "Foreign")
	foreign := mustCreateTask(t, ctx, tasks, other, foreignProject.ID.Hex(), "foreign")

	resp, err := tasks.BulkReorder(ctx, owner, []models.BulkReorderItem{
		{ID: mine.ID.Hex(), NewOrder: 42},
		{ID: foreign.ID.Hex(), NewOrder: 7},
		{ID: "000000000000000000000000", NewOrder: 1},
	})
	if err != nil {
		t.Fatalf("bulk reorder failed: %v", err)
	}

	if resp.Updated != 1 {
		t.Errorf("updated = %d, want 1", resp.Updated)
	}
	if len(resp.Skipped) != 2 {
		t.Errorf("skipped = %v, want 2 entries", resp.Skipped)
	}

	updated, err := tasks.Get(ctx, owner, mine.ID.Hex())
	if err != nil {
		t.Fatalf("get after reorder failed: %v", err)
	}
	if updated.Order != 42 {
		t.Errorf("order = %d, want 42", updated.Order)
	}

	// The foreign task must be untouched
	untouched, err := tasks.Get(ctx, other, foreign.ID.Hex())
	if err != nil {
		t.Fatalf("get foreign task failed: %v", err)
	}
	if untouched.Order == 7 {
		t.Error("bulk reorder modified a foreign task")
	}
}

func TestBulkReorder_Idempotent(t *testing.T) {
	db, ctx := setupStore(t)
	projects := NewProjectService(db)
	tasks := NewTaskService(db)
	userID := testUserID(t)

	project := mustCreateProject(t, ctx, projects, userID, "Idempotent")
	a := mustCreateTask(t, ctx, tasks, userID, project.ID.Hex(), "a")
	b := mustCreateTask(t, ctx, tasks, userID, project.ID.Hex(), "b")

	payload := []models.BulkReorderItem{
		{ID: a.ID.Hex(), NewOrder: 10},
		{ID: b.ID.Hex(), NewOrder: 5},
	}

	for i := 0; i < 2; i++ {
		if _, err := tasks.BulkReorder(ctx, userID, payload); err != nil {
			t.Fatalf("bulk reorder pass %d failed: %v", i+1, err)
		}
	}

	list, err := tasks.List(ctx, userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := titles(list)
	want := []string{"b", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order after double apply[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// Exercises the full lifecycle: create, ordering, reorder, toggle, cascade.
func TestEndToEndScenario(t *testing.T) {
	db, ctx := setupStore(t)
	projects := NewProjectService(db)
	tasks := NewTaskService(db)
	userID := testUserID(t)

	work := mustCreateProject(t, ctx, projects, userID, "Work")
	if work.Order != 0 {
		t.Errorf("first project order = %d, want 0", work.Order)
	}

	a, err := tasks.Create(ctx, userID, &models.CreateTaskRequest{Title: "A", Priority: models.PriorityP1, ProjectID: work.ID.Hex()})
	if err != nil {
		t.Fatalf("create A failed: %v", err)
	}
	b, err := tasks.Create(ctx, userID, &models.CreateTaskRequest{Title: "B", Priority: models.PriorityP4, ProjectID: work.ID.Hex()})
	if err != nil {
		t.Fatalf("create B failed: %v", err)
	}
	c, err := tasks.Create(ctx, userID, &models.CreateTaskRequest{Title: "C", Priority: models.PriorityP2, ProjectID: work.ID.Hex()})
	if err != nil {
		t.Fatalf("create C failed: %v", err)
	}

	if a.Order != 0 || b.Order != 1 || c.Order != 2 {
		t.Errorf("initial orders = %d,%d,%d, want 0,1,2", a.Order, b.Order, c.Order)
	}

	if _, err := tasks.BulkReorder(ctx, userID, []models.BulkReorderItem{
		{ID: c.ID.Hex(), NewOrder: 0},
		{ID: a.ID.Hex(), NewOrder: 1},
		{ID: b.ID.Hex(), NewOrder: 2},
	}); err != nil {
		t.Fatalf("bulk reorder failed: %v", err)
	}

	ordered, err := tasks.ListByProject(ctx, userID, work.ID.Hex())
	if err != nil {
		t.Fatalf("list by project failed: %v", err)
	}
	got := titles(ordered)
	want := []string{"C", "A", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("project order[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	toggled, err := tasks.ToggleComplete(ctx, userID, b.ID.Hex())
	if err != nil {
		t.Fatalf("toggle B failed: %v", err)
	}
	if toggled.Status != models.TaskStatusCompleted || toggled.CompletedAt == nil {
		t.Errorf("B after toggle: status=%q completedAt=%v", toggled.Status, toggled.CompletedAt)
	}

	if err := projects.Delete(ctx, userID, work.ID.Hex()); err != nil {
		t.Fatalf("delete project failed: %v", err)
	}

	empty, err := tasks.ListByProject(ctx, userID, work.ID.Hex())
	if err != nil {
		t.Fatalf("list after delete failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("tasks remain after cascade: %v", titles(empty))
	}

	for _, task := range []*models.Task{a, b, c} {
		if _, err := tasks.Get(ctx, userID, task.ID.Hex()); !errors.Is(err, ErrNotFound) {
			t.Errorf("task %q lookup after cascade = %v, want ErrNotFound", task.Title, err)
		}
	}
}

func TestProjectDelete_CascadesToTasks(t *testing.T) {
	db, ctx := setupStore(t)
	projects := NewProjectService(db)
	tasks := NewTaskService(db)
	userID := testUserID(t)

	doomed := mustCreateProject(t, ctx, projects, userID, "Doomed")
	survivor := mustCreateProject(t, ctx, projects, userID, "Survivor")

	mustCreateTask(t, ctx, tasks, userID, doomed.ID.Hex(), "goes-away-1")
	mustCreateTask(t, ctx, tasks, userID, doomed.ID.Hex(), "goes-away-2")
	kept := mustCreateTask(t, ctx, tasks, userID, survivor.ID.Hex(), "stays")

	if err := projects.Delete(ctx, userID, doomed.ID.Hex()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	remaining, err := tasks.List(ctx, userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != kept.ID {
		t.Errorf("expected only the survivor task, got %v", titles(remaining))
	}

	if _, err := projects.Get(ctx, userID, doomed.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted project Get error = %v, want ErrNotFound", err)
	}
}

func TestLabelDelete_FansOutAcrossOwnerTasks(t *testing.T) {
	db, ctx := setupStore(t)
	projects := NewProjectService(db)
	tasks := NewTaskService(db)
	labels := NewLabelService(db)
	userID := testUserID(t)

	project := mustCreateProject(t, ctx, projects, userID, "Labeled")
	label, err := labels.Create(ctx, userID, &models.CreateLabelRequest{Name: "urgent", Color: "#f00"})
	if err != nil {
		t.Fatalf("create label failed: %v", err)
	}

	tagged, err := tasks.Create(ctx, userID, &models.CreateTaskRequest{
		Title:     "tagged",
		ProjectID: project.ID.Hex(),
		Labels:    []string{label.ID.Hex()},
	})
	if err != nil {
		t.Fatalf("create tagged task failed: %v", err)
	}

	if err := labels.Delete(ctx, userID, label.ID.Hex()); err != nil {
		t.Fatalf("delete label failed: %v", err)
	}

	after, err := tasks.Get(ctx, userID, tagged.ID.Hex())
	if err != nil {
		t.Fatalf("get after label delete failed: %v", err)
	}
	if len(after.Labels) != 0 {
		t.Errorf("label id still referenced after delete: %v", after.Labels)
	}
}

func TestListQueries_AnonymousGetsEmpty(t *testing.T) {
	db, ctx := setupStore(t)
	tasks := NewTaskService(db)
	projects := NewProjectService(db)
	labels := NewLabelService(db)

	list, err := tasks.List(ctx, "")
	if err != nil || len(list) != 0 {
		t.Errorf("anonymous task list = (%v, %v), want empty", list, err)
	}

	plist, err := projects.List(ctx, "")
	if err != nil || len(plist) != 0 {
		t.Errorf("anonymous project list = (%v, %v), want empty", plist, err)
	}

	llist, err := labels.List(ctx, "")
	if err != nil || len(llist) != 0 {
		t.Errorf("anonymous label list = (%v, %v), want empty", llist, err)
	}
}

func TestUpdate_PartialPatchPreservesOtherFields(t *testing.T) {
	db, ctx := setupStore(t)
	projects := NewProjectService(db)
	tasks := NewTaskService(db)
	userID := testUserID(t)

	project := mustCreateProject(t, ctx, projects, userID, "Patch")
	due := time.Now().Add(24 * time.Hour).UnixMilli()
	task, err := tasks.Create(ctx, userID, &models.CreateTaskRequest{
		Title:       "original",
		Description: "keep me",
		Priority:    models.PriorityP2,
		ProjectID:   project.ID.Hex(),
		DueDate:     &due,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	title := "renamed"
	updated, err := tasks.Update(ctx, userID, task.ID.Hex(), &models.UpdateTaskRequest{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Title != "renamed" {
		t.Errorf("title = %q, want renamed", updated.Title)
	}
	if updated.Description != "keep me" {
		t.Errorf("description was clobbered: %q", updated.Description)
	}
	if updated.Priority != models.PriorityP2 {
		t.Errorf("priority was clobbered: %q", updated.Priority)
	}
	if updated.DueDate == nil || *updated.DueDate != due {
		t.Errorf("dueDate was clobbered: %v", updated.DueDate)
	}
	if updated.Status != models.TaskStatusActive {
		t.Errorf("status changed on patch: %q", updated.Status)
	}
}
