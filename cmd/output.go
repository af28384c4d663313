package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gig-profile/core/reconcile"
	"gig-profile/feature/profile"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

// recordView is the printable form of a profile record.
type recordView struct {
	Address        string   `json:"address" yaml:"address"`
	Name           string   `json:"name" yaml:"name"`
	Email          string   `json:"email" yaml:"email"`
	WhatsappNumber string   `json:"whatsappNumber" yaml:"whatsappNumber"`
	Bio            string   `json:"bio" yaml:"bio"`
	Avatar         string   `json:"avatar" yaml:"avatar"`
	Role           string   `json:"role" yaml:"role"`
	Skills         []string `json:"skills" yaml:"skills"`
	HourlyRate     string   `json:"hourlyRate" yaml:"hourlyRate"`
	UpdatedAt      string   `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

func newRecordView(rec profile.Record) recordView {
	v := recordView{
		Address:        rec.Identity,
		Name:           rec.DisplayName,
		Email:          rec.ContactEmail,
		WhatsappNumber: rec.ContactPhone,
		Bio:            rec.Biography,
		Avatar:         rec.AvatarToken,
		Role:           string(rec.Role),
		Skills:         rec.Skills,
		HourlyRate:     rec.HourlyRate,
	}
	if !rec.LastSyncedAt.IsZero() {
		v.UpdatedAt = rec.LastSyncedAt.UTC().Format(time.RFC3339)
	}
	return v
}

func printRecord(cmd *cobra.Command, rec profile.Record) error {
	return render(cmd.OutOrStdout(), newRecordView(rec), func(w io.Writer) {
		fmt.Fprintf(w, "%s %s (%s)\n", rec.AvatarToken, rec.Label(), rec.Role.Display())
		if rec.Linked() {
			fmt.Fprintf(w, "Address:   %s\n", rec.Identity)
		} else {
			fmt.Fprintln(w, "Address:   (not linked)")
		}
		fmt.Fprintf(w, "Email:     %s\n", rec.ContactEmail)
		fmt.Fprintf(w, "WhatsApp:  %s\n", rec.ContactPhone)
		if rec.Biography != "" {
			fmt.Fprintf(w, "Bio:       %s\n", rec.Biography)
		}
		if rec.Role.EditsRateAndSkills() {
			fmt.Fprintf(w, "Rate:      %s\n", rec.HourlyRate)
			fmt.Fprintf(w, "Skills:    %s\n", strings.Join(rec.Skills, ", "))
		}
		if rec.LastSyncedAt.IsZero() {
			fmt.Fprintln(w, "Synced:    never")
		} else {
			fmt.Fprintf(w, "Synced:    %s\n", rec.LastSyncedAt.UTC().Format(time.RFC3339))
		}
	})
}

func printDrift(cmd *cobra.Command, r *reconcile.Result) error {
	return render(cmd.OutOrStdout(), r, func(w io.Writer) {
		fmt.Fprintf(w, "=== Profile Drift: %s ===\n", r.ID)
		fmt.Fprintf(w, "Local:  %s\n", presence(r.LocalPresent))
		fmt.Fprintf(w, "Remote: %s\n", presence(r.RemotePresent))
		if r.InSync() {
			fmt.Fprintln(w, "In sync")
			return
		}
		for _, m := range r.Mismatch {
			fmt.Fprintf(w, "  %s\n", m)
		}
	})
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "missing"
}

// render writes v in the selected output format, or calls text for "text".
func render(w io.Writer, v any, text func(io.Writer)) error {
	switch outputFormat {
	case "", "text":
		text(w)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}
