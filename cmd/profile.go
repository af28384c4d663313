package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gig-profile/core/config"
	"gig-profile/core/logger"
	"gig-profile/feature/integrity"
	"gig-profile/feature/profile"
	"gig-profile/feature/profile/cache"
	"gig-profile/feature/profile/remote"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outputFormat string

	linkRole string
	linkYes  bool

	editName        string
	editEmail       string
	editPhone       string
	editBio         string
	editAvatar      string
	editRate        string
	editAddSkills   []string
	editRemoveSkill []string
)

// profileCmd is the parent command for local profile operations.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show, link, edit and check the local profile",
	Long: `Operates on the profile cached on this machine. Edits are validated
locally, the contact fields are sent to the users API, and the whole record is
cached once the API accepts them.`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cached profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		return printRecord(cmd, s.rec.Current())
	},
}

var profileLinkCmd = &cobra.Command{
	Use:   "link <address>",
	Short: "Tie the local profile to a wallet address",
	Long: `Sets the identity and role of a profile that has none. Both are fixed
afterwards, so the command asks for confirmation unless --yes is given.

The account is then registered on the users API. If that fails the local link
is kept and "profile register" retries the registration.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}

		if !confirmLink(args[0], linkRole) {
			s.log.Warn("Link cancelled by user. No changes were made.")
			return nil
		}

		rec, err := s.rec.Link(cmd.Context(), args[0], profile.Role(linkRole))
		if err != nil {
			return err
		}
		if err := s.register(cmd.Context(), rec); err != nil {
			s.log.Warn("Profile linked locally but not registered. Run 'profile register' to retry.",
				zap.Error(err))
		}
		return printRecord(cmd, rec)
	},
}

var profileRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create the linked profile's account on the users API",
	Long: `Registers the linked identity, role and contact fields with the users API.
An account that already exists is left unchanged.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		return s.register(cmd.Context(), s.rec.Canonical())
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the profile and sync the contact fields",
	Long: `Opens an edit session, applies the given flags and commits.

Examples:
  # Change the contact email
  profile edit --email ana@example.com

  # Freelancer details
  profile edit --rate 45 --add-skill Go --add-skill SQL --remove-skill PHP`,
	RunE: runProfileEdit,
}

var profileCheckCmd = &cobra.Command{
	Use:   "check [address]",
	Short: "Compare the cached profile with the users API",
	Long: `Reports contact fields that differ between the local cache and the users
API. Defaults to the linked address. Nothing is written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}

		identity := ""
		if len(args) == 1 {
			identity = args[0]
		}

		result, err := integrity.NewDriftChecker(s.cache, s.remote, s.log).Check(cmd.Context(), identity)
		if err != nil {
			return err
		}
		if err := printDrift(cmd, result); err != nil {
			return err
		}
		if !result.InSync() {
			return fmt.Errorf("profile %s is out of sync", result.ID)
		}
		return nil
	},
}

func init() {
	profileCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text, json, yaml)")

	profileLinkCmd.Flags().StringVar(&linkRole, "role", string(profile.RoleClient), "Account role (client or freelancer)")
	profileLinkCmd.Flags().BoolVar(&linkYes, "yes", false, "Skip the confirmation prompt")

	f := profileEditCmd.Flags()
	f.StringVar(&editName, "name", "", "Display name")
	f.StringVar(&editEmail, "email", "", "Contact email")
	f.StringVar(&editPhone, "phone", "", "WhatsApp number")
	f.StringVar(&editBio, "bio", "", "Biography")
	f.StringVar(&editAvatar, "avatar", "", "Avatar symbol, one of "+strings.Join(profile.AvatarTokens(), " "))
	f.StringVar(&editRate, "rate", "", "Hourly rate")
	f.StringArrayVar(&editAddSkills, "add-skill", nil, "Skill to add (repeatable)")
	f.StringArrayVar(&editRemoveSkill, "remove-skill", nil, "Skill to remove (repeatable)")

	profileCmd.AddCommand(profileShowCmd, profileLinkCmd, profileRegisterCmd, profileEditCmd, profileCheckCmd)
	RootCmd.AddCommand(profileCmd)
}

type session struct {
	cfg    *config.Config
	log    *zap.Logger
	cache  profile.Cache
	remote *remote.Client
	rec    *profile.Reconciler
}

func openSession(ctx context.Context) (*session, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	c, err := cache.Open(ctx, cfg.Cache, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile cache: %w", err)
	}

	client := remote.NewClient(cfg.Remote)
	rec, err := profile.Load(ctx, client, c, l)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, log: l, cache: c, remote: client, rec: rec}, nil
}

// register creates the account of rec on the users API.
func (s *session) register(ctx context.Context, rec profile.Record) error {
	created, err := s.remote.Register(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to register %s: %w", rec.Identity, err)
	}
	if created {
		s.log.Info("Account registered", zap.String("identity", rec.Identity), zap.String("role", string(rec.Role)))
	} else {
		s.log.Info("Account already registered", zap.String("identity", rec.Identity))
	}
	return nil
}

func runProfileEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}

	fields := []struct {
		flag  string
		field string
		value *string
	}{
		{"name", profile.FieldDisplayName, &editName},
		{"email", profile.FieldContactEmail, &editEmail},
		{"phone", profile.FieldContactPhone, &editPhone},
		{"bio", profile.FieldBiography, &editBio},
		{"avatar", profile.FieldAvatarToken, &editAvatar},
		{"rate", profile.FieldHourlyRate, &editRate},
	}

	changed := len(editAddSkills) > 0 || len(editRemoveSkill) > 0
	for _, f := range fields {
		if cmd.Flags().Changed(f.flag) {
			changed = true
		}
	}
	if !changed {
		return errors.New("nothing to edit, see --help for the available flags")
	}

	if _, err := s.rec.BeginEdit(); err != nil {
		return err
	}
	for _, f := range fields {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		if err := s.rec.SetField(f.field, *f.value); err != nil {
			return err
		}
	}
	for _, skill := range editAddSkills {
		if err := s.rec.AddSkill(skill); err != nil {
			return err
		}
	}
	for _, skill := range editRemoveSkill {
		if err := s.rec.RemoveSkill(skill); err != nil {
			return err
		}
	}

	rec, err := s.rec.Commit(ctx)
	var cacheErr *profile.CacheWriteError
	switch {
	case err == nil:
	case errors.As(err, &cacheErr):
		// The users API has the change; only the local copy is stale.
		s.log.Warn("Profile saved remotely but the local cache was not updated", zap.Error(err))
	default:
		_ = s.rec.CancelEdit()
		var verr *profile.ValidationError
		if errors.As(err, &verr) {
			for _, field := range verr.Fields {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", field, verr.Reasons[field])
			}
		}
		return err
	}

	return printRecord(cmd, rec)
}

// confirmLink prompts the user for confirmation or uses --yes flag.
func confirmLink(address, role string) bool {
	if linkYes {
		return true
	}

	fmt.Printf("Link this profile to %s as %s? Identity and role cannot be changed later.\n", address, role)
	fmt.Print("Type 'yes' to confirm: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
