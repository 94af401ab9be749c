package session

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Bharadwaj710/Collab-Tool/core"
)

type contentUpdatePayload struct {
	SurfaceID string        `json:"surfaceId"`
	Version   uint64        `json:"version"`
	Content   string        `json:"content"`
	Editor    core.Identity `json:"editor"`
}

// ApplyContent runs the version-watermark policy for one surface: an
// incoming edit at or above the stored version commits wholesale and is
// echoed to everyone but the sender; anything below is dropped without
// a reply. Equal versions deliberately let the later arrival clobber
// the earlier one; clients rely on this, so it is >= and not >.
func (h *Hub) ApplyContent(ctx context.Context, roomID, connID, surfaceID string, version uint64, content string, editor core.Identity) {
	if roomID == "" || surfaceID == "" || editor.IsZero() {
		return
	}
	r := h.lookup(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return
	}

	current := r.doc.Surfaces[surfaceID]
	if version < current.Version {
		logrus.WithFields(logrus.Fields{
			"room_id":        roomID,
			"surface_id":     surfaceID,
			"version":        version,
			"stored_version": current.Version,
		}).Debug("Stale edit discarded")
		return
	}

	r.doc.Surfaces[surfaceID] = core.ContentState{
		Content:    content,
		Version:    version,
		LastEditor: editor,
	}

	h.dispatch.RoomExcept(roomID, connID, EventContentUpdate, contentUpdatePayload{
		SurfaceID: surfaceID,
		Version:   version,
		Content:   content,
		Editor:    editor,
	})
	h.persist(r)
}
