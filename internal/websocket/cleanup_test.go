package websocket

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/madmonkey007/EchoListenultra/adapters/blob"
	"github.com/madmonkey007/EchoListenultra/adapters/memory"
)

func TestRunCleanupPurgesDeletedSessions(t *testing.T) {
	repo := memory.NewSessionRepository()
	store := blob.NewMemoryStore()
	ctx := context.Background()

	kept := seedSession(t, repo, "user-1")
	doomed := seedSession(t, repo, "user-1")

	doomed.AudioKey = doomed.ID + ".audio"
	if err := store.Put(ctx, doomed.AudioKey, []byte("bytes")); err != nil {
		t.Fatal(err)
	}
	doomed.SoftDelete()
	if err := repo.Update(ctx, doomed); err != nil {
		t.Fatal(err)
	}

	svc := NewCleanupService(repo, store, zap.NewNop())
	svc.runCleanup()

	if got, _ := repo.GetByID(ctx, doomed.ID); got != nil {
		t.Error("deleted session document survived cleanup")
	}
	if got, _ := repo.GetByID(ctx, kept.ID); got == nil {
		t.Error("active session was purged")
	}
	if store.Len() != 0 {
		t.Errorf("audio blob survived cleanup, %d blobs left", store.Len())
	}
}
