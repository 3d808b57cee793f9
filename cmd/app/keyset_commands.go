package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/fieldcrypt/cmd/app/commands"
	"github.com/allisson/fieldcrypt/internal/app"
	"github.com/allisson/fieldcrypt/internal/config"
	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
)

func fieldFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "keyset",
			Aliases: []string{"k"},
			Usage:   "Keyset name (defaults to RANDOM_KEYSET or LOOKUP_KEYSET depending on mode)",
		},
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Value:   "random",
			Usage:   "Encryption mode: 'random' or 'deterministic'",
		},
		&cli.StringFlag{
			Name:  "aad",
			Usage: "Associated data bound to the ciphertext",
		},
	}
}

// fieldOptions resolves the keyset name for the selected mode from the flags and config.
func fieldOptions(cmd *cli.Command, cfg *config.Config) commands.FieldOptions {
	opts := commands.FieldOptions{
		Keyset:         cmd.String("keyset"),
		Mode:           cmd.String("mode"),
		AssociatedData: cmd.String("aad"),
	}
	if opts.Keyset == "" {
		opts.Keyset = cfg.RandomKeyset
		if opts.Mode == "deterministic" {
			opts.Keyset = cfg.LookupKeyset
		}
	}
	return opts
}

func getKeysetCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "verify-keysets",
			Usage: "Load every configured keyset and report its status",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				keyring, err := container.Keyring()
				if err != nil {
					return err
				}

				return commands.RunVerifyKeysets(
					ctx,
					keyring,
					container.Logger(),
					cmd.Root().Writer,
					cmd.String("format"),
				)
			}),
		},
		{
			Name:  "encrypt",
			Usage: "Encrypt a value with a configured keyset and print it as base64",
			Flags: append(fieldFlags(), &cli.StringFlag{
				Name:     "value",
				Aliases:  []string{"v"},
				Required: true,
				Usage:    "Plaintext to encrypt",
			}),
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				keyring, err := container.Keyring()
				if err != nil {
					return err
				}

				return commands.RunEncrypt(
					ctx,
					keyring,
					cmd.Root().Writer,
					fieldOptions(cmd, container.Config()),
					cmd.String("value"),
				)
			}),
		},
		{
			Name:  "decrypt",
			Usage: "Decrypt a base64 ciphertext produced by encrypt or stored in a column",
			Flags: append(fieldFlags(), &cli.StringFlag{
				Name:     "ciphertext",
				Aliases:  []string{"c"},
				Required: true,
				Usage:    "Standard base64 ciphertext",
			}),
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				keyring, err := container.Keyring()
				if err != nil {
					return err
				}

				return commands.RunDecrypt(
					ctx,
					keyring,
					cmd.Root().Writer,
					fieldOptions(cmd, container.Config()),
					cmd.String("ciphertext"),
				)
			}),
		},
		{
			Name:  "create-keyset",
			Usage: "Generate a Tink keyset in JSON format",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "type",
					Aliases: []string{"t"},
					Value:   "aes256-gcm",
					Usage:   "Key type: aes256-gcm, chacha20-poly1305, xchacha20-poly1305 or aes-siv",
				},
				&cli.BoolFlag{
					Name:  "wrapped",
					Usage: "Wrap the keyset with the configured master key",
				},
				&cli.StringFlag{
					Name:  "master-key-id",
					Usage: "Master key id from MASTER_KEYS (defaults to the active or keeper key)",
				},
			},
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				var masterKey keysetDomain.MasterKey
				if cmd.Bool("wrapped") {
					resolver, err := container.MasterKeyResolver()
					if err != nil {
						return err
					}
					if resolver == nil {
						return fmt.Errorf("%w: set MASTER_KEY_URI or MASTER_KEYS", keysetDomain.ErrMasterKeyRequired)
					}
					if masterKey, err = resolver(cmd.String("master-key-id")); err != nil {
						return err
					}
				}

				return commands.RunCreateKeyset(
					container.Logger(),
					cmd.Root().Writer,
					cmd.String("type"),
					masterKey,
				)
			}),
		},
		{
			Name:  "create-master-key",
			Usage: "Generate a master key for wrapping keysets",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Usage:   "Master key ID (e.g., prod-master-key-2025)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateMasterKey(cmd.Root().Writer, cmd.String("id"))
			},
		},
	}
}
