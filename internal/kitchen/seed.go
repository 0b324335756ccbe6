package kitchen

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"efficiensa/internal/models"
)

// DemoOrders builds a sample board with at least one order in every status
func DemoOrders(now time.Time) []*models.Order {
	at := func(minutesAgo int) *time.Time {
		t := now.Add(-time.Duration(minutesAgo) * time.Minute)
		return &t
	}
	item := func(id, name string, qty int, station string, status models.ItemStatus, mods ...string) models.OrderItem {
		return models.OrderItem{ID: id, Name: name, Quantity: qty, Station: station, Status: status, Modifiers: mods}
	}

	orders := []*models.Order{
		{
			OrderNumber: "1241",
			TableName:   "Table 4",
			OrderType:   models.OrderTypeDineIn,
			Priority:    models.PriorityNormal,
			Status:      models.StatusQueue,
			CreatedAt:   *at(2),
			Server:      "Maria",
			Items: []models.OrderItem{
				item("1a", "Margherita Pizza", 1, "Pizza", models.ItemPending, "Extra basil"),
				item("1b", "Caesar Salad", 2, "Cold", models.ItemPending),
			},
		},
		{
			OrderNumber: "1242",
			OrderType:   models.OrderTypeTakeout,
			Priority:    models.PriorityRush,
			Status:      models.StatusQueue,
			CreatedAt:   *at(1),
			Source:      "phone",
			Items: []models.OrderItem{
				item("1a", "Cheeseburger", 1, "Grill", models.ItemPending, "No onion", "Extra cheese"),
				item("1b", "Fries", 1, "Fry", models.ItemPending),
			},
		},
		{
			OrderNumber: "1238",
			TableName:   "Table 9",
			OrderType:   models.OrderTypeDineIn,
			Priority:    models.PriorityVIP,
			Status:      models.StatusCooking,
			CreatedAt:   *at(9),
			StartedAt:   at(7),
			Server:      "Luis",
			Items: []models.OrderItem{
				item("1a", "Ribeye Steak", 1, "Grill", models.ItemInProgress, "Medium rare"),
				item("1b", "Mashed Potatoes", 1, "Hot", models.ItemDone),
			},
		},
		{
			OrderNumber: "1235",
			OrderType:   models.OrderTypeDelivery,
			Priority:    models.PriorityNormal,
			Status:      models.StatusCooking,
			CreatedAt:   *at(14),
			StartedAt:   at(12),
			Source:      "app",
			Items: []models.OrderItem{
				item("1a", "Pad Thai", 2, "Wok", models.ItemPending),
			},
		},
		{
			OrderNumber: "1236",
			TableName:   "Table 2",
			OrderType:   models.OrderTypeDineIn,
			Priority:    models.PriorityNormal,
			Status:      models.StatusReady,
			CreatedAt:   *at(16),
			StartedAt:   at(15),
			ReadyAt:     at(1),
			Items: []models.OrderItem{
				item("1a", "Fish Tacos", 3, "Grill", models.ItemDone),
			},
		},
		{
			OrderNumber: "1233",
			OrderType:   models.OrderTypeTakeout,
			Priority:    models.PriorityNormal,
			Status:      models.StatusDelayed,
			CreatedAt:   *at(25),
			StartedAt:   at(22),
			Notes:       "Waiting on fresh dough",
			Items: []models.OrderItem{
				item("1a", "Calzone", 1, "Pizza", models.ItemPending),
			},
		},
		{
			OrderNumber: "1230",
			TableName:   "Table 7",
			OrderType:   models.OrderTypeDineIn,
			Priority:    models.PriorityNormal,
			Status:      models.StatusCompleted,
			CreatedAt:   *at(40),
			StartedAt:   at(38),
			ReadyAt:     at(28),
			CompletedAt: at(26),
			Items: []models.OrderItem{
				item("1a", "Lasagna", 2, "Hot", models.ItemDone),
				item("1b", "Tiramisu", 2, "Cold", models.ItemDone),
			},
		},
	}

	for _, o := range orders {
		o.ID = uuid.NewString()
		for i := range o.Items {
			o.Items[i].Position = i
		}
	}
	return orders
}

// Seed stores the demo orders
func (s *Service) Seed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := DemoOrders(s.clock.Now())
	for _, o := range orders {
		if err := s.repo.Create(o); err != nil {
			return fmt.Errorf("failed to seed order %s: %w", o.OrderNumber, err)
		}
	}
	s.log.Info("orders_seeded", "Demo orders created", "", map[string]interface{}{"count": len(orders)})
	return nil
}
