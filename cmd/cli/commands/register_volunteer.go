package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
	"github.com/jakechorley/relief-coordinator/pkg/core/services"
)

type registrationFlags struct {
	id        string
	name      string
	phone     string
	email     string
	kind      string
	members   int
	roles     []string
	languages []string
	date      string
	available []string
	area      string
	operation string
	notes     string
}

// record turns the flags into a raw registration. Unset flags are left out so the
// normalizer applies its defaults.
func (f registrationFlags) record() engine.Record {
	raw := engine.Record{}
	set := func(key string, value string) {
		if value != "" {
			raw[key] = value
		}
	}

	set("id", f.id)
	set("fullName", f.name)
	set("phone", f.phone)
	set("email", f.email)
	set("volunteerType", f.kind)
	set("date", f.date)
	set("livingArea", f.area)
	set("operationId", f.operation)
	set("notes", f.notes)

	if f.members > 0 {
		raw["members"] = f.members
	}
	if len(f.roles) > 0 {
		raw["roles"] = f.roles
	}
	if len(f.languages) > 0 {
		raw["languages"] = f.languages
	}
	if len(f.available) > 0 {
		raw["availableTime"] = f.available
	}

	return raw
}

// RegisterVolunteerCmd creates the registerVolunteer command
func RegisterVolunteerCmd(app *AppContext) *cobra.Command {
	var f registrationFlags

	cmd := &cobra.Command{
		Use:   "registerVolunteer",
		Short: "Register a new individual or team volunteer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := services.RegisterVolunteer(app.Ctx, app.Database, app.Logger, f.record(), time.Now())
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Volunteer registered!\n\n")
			fmt.Println(volunteerLine(*v))
			fmt.Println()
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.id, "id", "", "Volunteer ID (generated when empty)")
	flags.StringVar(&f.name, "name", "", "Full name, or team name")
	flags.StringVar(&f.phone, "phone", "", "Contact phone")
	flags.StringVar(&f.email, "email", "", "Contact email")
	flags.StringVar(&f.kind, "type", "individual", "Volunteer type (individual or team)")
	flags.IntVar(&f.members, "members", 0, "Team size (individuals are always 1)")
	flags.StringSliceVar(&f.roles, "role", nil, "Role (repeatable)")
	flags.StringSliceVar(&f.languages, "language", nil, "Spoken language (repeatable)")
	flags.StringVar(&f.date, "date", "", "Available from (YYYY-MM-DD), defaults to today")
	flags.StringSliceVar(&f.available, "available", nil, "Time slot: daytime or night (repeatable)")
	flags.StringVar(&f.area, "area", "", "Living area")
	flags.StringVar(&f.operation, "operation", "", "Preferred operation ID")
	flags.StringVar(&f.notes, "notes", "", "Notes")
	cmd.MarkFlagRequired("name")

	return cmd
}

// DeleteVolunteerCmd creates the deleteVolunteer command
func DeleteVolunteerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteVolunteer <volunteer_id>",
		Short: "Delete a volunteer record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteVolunteer(app.Ctx, app.Database, app.Logger, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "\n✓ Volunteer %s deleted\n\n", args[0])
			return nil
		},
	}
}
