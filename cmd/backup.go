package main

import (
	"MediIntake/backup"
	"MediIntake/repositories"
	"fmt"

	"github.com/spf13/cobra"
)

func newBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Upload a snapshot of every collection to S3",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			client, err := backup.NewS3Client(ctx, a.cfg.AWSRegion)
			if err != nil {
				return err
			}
			b, err := backup.NewS3Backup(client, a.store, a.cfg.BackupBucket, a.cfg.BackupPrefix, a.logger)
			if err != nil {
				return err
			}

			keys, err := b.Run(ctx, repositories.Collections)
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "s3://%s/%s\n", a.cfg.BackupBucket, key)
			}
			return nil
		},
	}
}
