package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		events, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("invites")

		collection.Fields.Add(
			&core.RelationField{
				Name:          "event",
				Required:      true,
				CollectionId:  events.Id,
				CascadeDelete: true, // deleting an event removes its invites
				MaxSelect:     1,
			},
			&core.EmailField{
				Name:     "email",
				Required: true,
			},
			&core.TextField{
				Name: "name",
				Max:  255,
			},
			&core.TextField{
				Name:     "token",
				Required: true,
				Max:      64,
			},
			&core.SelectField{
				Name:      "status",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"pending", "requested", "yes", "waitlist", "no"},
			},
			&core.NumberField{
				Name:    "seat_number",
				OnlyInt: true,
				Min:     types.Pointer(0.0),
			},
			&core.DateField{
				Name: "responded_at",
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
		)

		// Token is the system-wide lookup key for invitee actions.
		collection.AddIndex("idx_invites_token", true, "token", "")
		collection.AddIndex("idx_invites_event_email", true, "`event`, `email`", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("invites")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
