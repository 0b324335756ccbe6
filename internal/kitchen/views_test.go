package kitchen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"efficiensa/internal/models"
)

func TestParseView(t *testing.T) {
	v, err := ParseView("")
	require.NoError(t, err)
	assert.Equal(t, ViewKitchen, v)

	v, err = ParseView("expo")
	require.NoError(t, err)
	assert.Equal(t, []models.Status{models.StatusReady}, v.Statuses())

	_, err = ParseView("bar")
	assert.Error(t, err)
}

func TestBuildBoard_OrdersByPriorityThenAge(t *testing.T) {
	older := newOrder(models.StatusQueue)
	older.ID = "older"
	newer := newOrder(models.StatusQueue)
	newer.ID = "newer"
	newer.CreatedAt = t0.Add(time.Minute)
	rush := newOrder(models.StatusQueue)
	rush.ID = "rush"
	rush.Priority = models.PriorityRush
	rush.CreatedAt = t0.Add(2 * time.Minute)
	vip := newOrder(models.StatusQueue)
	vip.ID = "vip"
	vip.Priority = models.PriorityVIP
	vip.CreatedAt = t0.Add(3 * time.Minute)

	board := BuildBoard([]*models.Order{newer, older, vip, rush}, ViewQueue, "", t0.Add(5*time.Minute), DefaultThresholds)

	var ids []string
	for _, c := range board.Cards {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"rush", "vip", "older", "newer"}, ids)
	assert.Equal(t, 4, board.Counts[models.StatusQueue])
}

func TestBuildBoard_HistoryMostRecentFirst(t *testing.T) {
	first := newOrder(models.StatusCompleted)
	first.ID = "first"
	firstAt := t0.Add(time.Minute)
	first.CompletedAt = &firstAt
	second := newOrder(models.StatusCompleted)
	second.ID = "second"
	secondAt := t0.Add(2 * time.Minute)
	second.CompletedAt = &secondAt

	board := BuildBoard([]*models.Order{first, second}, ViewHistory, "", t0.Add(time.Hour), DefaultThresholds)

	require.Len(t, board.Cards, 2)
	assert.Equal(t, "second", board.Cards[0].ID)
	assert.Equal(t, TierMuted, board.Cards[0].Badge.Border)
}

func TestBuildBoard_ExpoGroupsByOrderType(t *testing.T) {
	dine := newOrder(models.StatusReady)
	takeout := newOrder(models.StatusReady)
	takeout.OrderType = models.OrderTypeTakeout
	takeout.CreatedAt = t0.Add(time.Minute)

	board := BuildBoard([]*models.Order{dine, takeout}, ViewExpo, "", t0.Add(time.Hour), DefaultThresholds)

	assert.Equal(t, []int{0}, board.Groups[models.OrderTypeDineIn])
	assert.Equal(t, []int{1}, board.Groups[models.OrderTypeTakeout])
}

func TestBuildBoard_EmptyViewRendersEmptyCards(t *testing.T) {
	board := BuildBoard(nil, ViewDelayed, "", t0, DefaultThresholds)
	assert.NotNil(t, board.Cards)
	assert.Empty(t, board.Cards)
}

func TestFilterStation(t *testing.T) {
	o := newOrder(models.StatusCooking, models.ItemPending, models.ItemPending, models.ItemDone)
	o.Items[0].Station = "Grill"
	o.Items[1].Station = "Cold Line"
	o.Items[2].Station = "grill"

	grill := FilterStation(o, "GRILL")
	require.NotNil(t, grill)
	assert.Len(t, grill.Items, 2)
	assert.Len(t, o.Items, 3)

	cold := FilterStation(o, "cold-line")
	require.NotNil(t, cold)
	assert.Equal(t, "b", cold.Items[0].ID)

	assert.Nil(t, FilterStation(o, "pastry"))
}

func TestBuildBoard_StationSkipsOrdersWithoutItems(t *testing.T) {
	a := newOrder(models.StatusCooking, models.ItemPending)
	a.Items[0].Station = "grill"
	b := newOrder(models.StatusCooking, models.ItemPending)
	b.Items[0].Station = "fry"

	board := BuildBoard([]*models.Order{a, b}, ViewCooking, "grill", t0, DefaultThresholds)
	assert.Len(t, board.Cards, 1)
	assert.Equal(t, "grill", board.Station)
}

func TestBoard_OnlyStatus(t *testing.T) {
	q := newOrder(models.StatusQueue)
	c := newOrder(models.StatusCooking)
	board := BuildBoard([]*models.Order{q, c}, ViewKitchen, "", t0, DefaultThresholds)

	only := board.OnlyStatus(models.StatusCooking)
	require.Len(t, only.Cards, 1)
	assert.Equal(t, models.StatusCooking, only.Cards[0].Status)
	assert.Equal(t, map[models.Status]int{models.StatusCooking: 1}, only.Counts)
	assert.Equal(t, 2, board.Counts[models.StatusQueue]+board.Counts[models.StatusCooking])
}
