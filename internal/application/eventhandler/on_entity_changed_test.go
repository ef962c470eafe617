package eventhandler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

func TestRecentChanges_NewestFirstAndCapped(t *testing.T) {
	feed := NewRecentChanges(3, nil)

	for i := 1; i <= 5; i++ {
		evt := shared.NewEntityChangedEvent(shared.EventPartnerCreated,
			fmt.Sprintf("id-%d", i), "partner", "X", fmt.Sprintf("change %d", i))
		require.NoError(t, feed.Handle(evt))
	}

	recent := feed.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "change 5", recent[0].Summary)
	assert.Equal(t, "change 3", recent[2].Summary)
}

func TestRecentChanges_IgnoresOtherEventShapes(t *testing.T) {
	feed := NewRecentChanges(3, nil)
	require.NoError(t, feed.Handle(shared.NewAdminLoggedInEvent("id-1", "staff@erio.example.edu")))
	assert.Empty(t, feed.Recent())
}
