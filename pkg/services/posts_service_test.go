package services

import (
	"context"
	"reflect"
	"testing"

	"unafeed/pkg/apperr"
	"unafeed/pkg/models"
)

func newPostsService(repo *fakePostsRepo, moderator *fakeModerator) PostsService {
	return NewPostsService(repo, moderator, NopCache)
}

func eventRequest() models.CreatePostRequest {
	return models.CreatePostRequest{
		Kind:        models.KindEvent,
		Title:       "Workshop",
		Description: "Hands-on Go workshop",
		Date:        "2025-01-01T10:00:00Z",
		Location:    "Lab 1",
	}
}

func TestCreatePostMissingTitle(t *testing.T) {
	repo := newFakePostsRepo()
	svc := newPostsService(repo, &fakeModerator{})

	req := eventRequest()
	req.Title = ""
	_, _, err := svc.Create(context.Background(), "u1", req)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.posts) != 0 {
		t.Fatalf("no post should have been created")
	}
}

func TestCreatePostToxicTwoPhase(t *testing.T) {
	repo := newFakePostsRepo()
	svc := newPostsService(repo, &fakeModerator{})

	req := models.CreatePostRequest{
		Kind:        models.KindAnnouncement,
		Title:       "Rant",
		Description: "something toxic about the cafeteria",
	}

	post, warning, err := svc.Create(context.Background(), "u1", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post != nil {
		t.Fatalf("post must not be created on first flagged attempt")
	}
	if warning == nil || !warning.Warning || warning.ToxicContent != req.Description {
		t.Fatalf("expected warning payload, got %+v", warning)
	}
	if len(repo.posts) != 0 {
		t.Fatalf("flagged create persisted %d posts", len(repo.posts))
	}

	req.ConfirmOverride = true
	post, warning, err = svc.Create(context.Background(), "u1", req)
	if err != nil || warning != nil {
		t.Fatalf("override should create: err=%v warning=%+v", err, warning)
	}
	if post == nil || len(repo.posts) != 1 {
		t.Fatalf("expected exactly one post after override, got %d", len(repo.posts))
	}
}

func TestCreateEventPost(t *testing.T) {
	repo := newFakePostsRepo()
	svc := newPostsService(repo, &fakeModerator{})

	post, warning, err := svc.Create(context.Background(), "u1", eventRequest())
	if err != nil || warning != nil {
		t.Fatalf("create failed: err=%v warning=%+v", err, warning)
	}
	if post.Kind != models.KindEvent {
		t.Errorf("kind = %q, want Event", post.Kind)
	}
	if post.Date == nil || post.Location != "Lab 1" {
		t.Errorf("event fields not set: %+v", post)
	}
	if post.RSVPs == nil || len(post.RSVPs) != 0 {
		t.Errorf("new event must start with empty rsvp list, got %v", post.RSVPs)
	}
	if post.AuthorID != "u1" {
		t.Errorf("authorId = %q, want u1", post.AuthorID)
	}
}

func TestCreateEventPostRequiresDateAndLocation(t *testing.T) {
	svc := newPostsService(newFakePostsRepo(), &fakeModerator{})

	req := eventRequest()
	req.Location = ""
	if _, _, err := svc.Create(context.Background(), "u1", req); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("missing location: expected validation error, got %v", err)
	}

	req = eventRequest()
	req.Date = "not a date"
	if _, _, err := svc.Create(context.Background(), "u1", req); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("bad date: expected validation error, got %v", err)
	}
}

func TestCreateAnnouncementDefaultsImportance(t *testing.T) {
	svc := newPostsService(newFakePostsRepo(), &fakeModerator{})

	post, _, err := svc.Create(context.Background(), "u1", models.CreatePostRequest{
		Kind:        models.KindAnnouncement,
		Title:       "Library hours",
		Description: "New opening hours from Monday",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Importance != "medium" {
		t.Errorf("importance = %q, want medium", post.Importance)
	}
}

func TestToggleReactionTwiceReturnsToOriginal(t *testing.T) {
	repo := newFakePostsRepo()
	svc := newPostsService(repo, &fakeModerator{})
	post, _, _ := svc.Create(context.Background(), "u1", eventRequest())

	original := repo.posts[post.ID].Reactions

	after, err := svc.ToggleReaction(post.ID, "u2", "like")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(after) != 1 || after[0].Type != "like" {
		t.Fatalf("expected single like, got %v", after)
	}

	after, err = svc.ToggleReaction(post.ID, "u2", "like")
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if !reflect.DeepEqual(after, append([]models.Reaction{}, original...)) {
		t.Fatalf("double toggle should restore original list, got %v", after)
	}
}

func TestToggleReactionReplacesType(t *testing.T) {
	repo := newFakePostsRepo()
	svc := newPostsService(repo, &fakeModerator{})
	post, _, _ := svc.Create(context.Background(), "u1", eventRequest())

	svc.ToggleReaction(post.ID, "u2", "like")
	after, _ := svc.ToggleReaction(post.ID, "u2", "love")
	if len(after) != 1 || after[0].Type != "love" {
		t.Fatalf("expected single love reaction, got %v", after)
	}
}

func TestToggleReactionAtMostOnePerUser(t *testing.T) {
	repo := newFakePostsRepo()
	svc := newPostsService(repo, &fakeModerator{})
	post, _, _ := svc.Create(context.Background(), "u1", eventRequest())

	svc.ToggleReaction(post.ID, "u2", "like")
	svc.ToggleReaction(post.ID, "u3", "wow")
	after, _ := svc.ToggleReaction(post.ID, "u2", "sad")

	seen := map[string]int{}
	for _, re := range after {
		seen[re.UserID]++
	}
	for user, n := range seen {
		if n > 1 {
			t.Fatalf("user %s holds %d reactions", user, n)
		}
	}
}

func TestToggleReactionRejectsUnknownType(t *testing.T) {
	svc := newPostsService(newFakePostsRepo(), &fakeModerator{})
	if _, err := svc.ToggleReaction(1, "u1", "upvote"); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetRSVPOverwrites(t *testing.T) {
	repo := newFakePostsRepo()
	svc := newPostsService(repo, &fakeModerator{})
	post, _, _ := svc.Create(context.Background(), "u1", eventRequest())

	rsvps, counts, err := svc.SetRSVP(post.ID, "u1", models.RSVPGoing)
	if err != nil {
		t.Fatalf("rsvp: %v", err)
	}
	if len(rsvps) != 1 || rsvps[0].UserID != "u1" || rsvps[0].Status != models.RSVPGoing {
		t.Fatalf("unexpected rsvps: %v", rsvps)
	}
	if counts.Going != 1 || counts.NotGoing != 0 {
		t.Fatalf("counts = %+v, want going=1 notGoing=0", counts)
	}

	rsvps, counts, err = svc.SetRSVP(post.ID, "u1", models.RSVPNotGoing)
	if err != nil {
		t.Fatalf("rsvp update: %v", err)
	}
	if len(rsvps) != 1 || rsvps[0].Status != models.RSVPNotGoing {
		t.Fatalf("expected overwrite, got %v", rsvps)
	}
	if counts.Going != 0 || counts.NotGoing != 1 {
		t.Fatalf("counts = %+v, want going=0 notGoing=1", counts)
	}
}

func TestSetRSVPOnlyOnEvents(t *testing.T) {
	repo := newFakePostsRepo()
	svc := newPostsService(repo, &fakeModerator{})
	post, _, _ := svc.Create(context.Background(), "u1", models.CreatePostRequest{
		Kind:        models.KindAnnouncement,
		Title:       "Notice",
		Description: "A plain announcement",
	})

	if _, _, err := svc.SetRSVP(post.ID, "u1", models.RSVPGoing); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdatePostForbiddenForNonAuthor(t *testing.T) {
	repo := newFakePostsRepo()
	svc := newPostsService(repo, &fakeModerator{})
	post, _, _ := svc.Create(context.Background(), "u1", eventRequest())

	title := "Hijacked"
	_, err := svc.Update(post.ID, "u2", models.UpdatePostRequest{Title: &title})
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestDeletePost(t *testing.T) {
	repo := newFakePostsRepo()
	svc := newPostsService(repo, &fakeModerator{})
	post, _, _ := svc.Create(context.Background(), "u1", eventRequest())

	if err := svc.Delete(post.ID, "u2"); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("non-author delete: expected forbidden, got %v", err)
	}
	if err := svc.Delete(post.ID, "u1"); err != nil {
		t.Fatalf("author delete failed: %v", err)
	}
	if err := svc.Delete(post.ID, "u1"); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("second delete: expected not found, got %v", err)
	}
}

func TestGetIncrementsViews(t *testing.T) {
	repo := newFakePostsRepo()
	svc := newPostsService(repo, &fakeModerator{})
	post, _, _ := svc.Create(context.Background(), "u1", eventRequest())

	got, err := svc.Get(post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Views != 1 {
		t.Fatalf("views = %d, want 1", got.Views)
	}
}

func TestFeedRejectsUnknownKind(t *testing.T) {
	svc := newPostsService(newFakePostsRepo(), &fakeModerator{})
	if _, err := svc.Feed("Gossip", 1, 20); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePostModerationUnavailable(t *testing.T) {
	repo := newFakePostsRepo()
	moderator := &fakeModerator{err: context.DeadlineExceeded}
	svc := newPostsService(repo, moderator)

	_, _, err := svc.Create(context.Background(), "u1", eventRequest())
	if !apperr.IsKind(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(repo.posts) != 0 {
		t.Fatalf("no post should be created when moderation fails")
	}
}
