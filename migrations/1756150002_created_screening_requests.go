package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("screening_requests")

		collection.Fields.Add(
			&core.TextField{
				Name:     "title",
				Required: true,
				Max:      255,
			},
			&core.URLField{
				Name: "letterboxd_url",
			},
			&core.URLField{
				Name: "poster_url",
			},
			&core.TextField{
				Name: "requester_name",
				Max:  255,
			},
			&core.EmailField{
				Name: "requester_email",
			},
			&core.SelectField{
				Name:      "status",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"pending", "approved", "rejected"},
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("screening_requests")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
