package main

import (
	"MediIntake/models"
	"MediIntake/routes"
	"fmt"

	"github.com/spf13/cobra"
)

func newDoctorCommand() *cobra.Command {
	doctor := &cobra.Command{
		Use:   "doctor",
		Short: "Manage doctor accounts",
	}

	var req models.DoctorRegistration
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a doctor account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			deps, err := a.dependencies(cmd.Context())
			if err != nil {
				return err
			}

			created, err := routes.BuildServices(deps).Auth.RegisterDoctor(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to create doctor: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created doctor %s (%s %s, %s)\n",
				created.DoctorID, created.FirstName, created.LastName, created.Specialization)
			return nil
		},
	}
	create.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	create.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	create.Flags().StringVar(&req.Email, "email", "", "login e-mail")
	create.Flags().StringVar(&req.Password, "password", "", "initial password")
	create.Flags().StringVar(&req.Specialization, "specialization", "General Practice", "specialization")
	for _, name := range []string{"first-name", "last-name", "email", "password"} {
		_ = create.MarkFlagRequired(name)
	}

	doctor.AddCommand(create)
	return doctor
}
