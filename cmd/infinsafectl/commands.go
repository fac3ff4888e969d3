package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/logging"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/locale"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/rewards"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/risk"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/scanner"
)

var errEmptyQuery = errors.New("query must not be empty")

type rootOptions struct {
	json bool
	lang string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "infinsafectl",
		Short:         "Offline tooling for the InFinsafe fraud-check data",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.InitWithWriter("infinsafectl", cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print machine readable JSON")
	root.PersistentFlags().StringVar(&opts.lang, "lang", string(locale.Default), "display locale (en, hi)")

	root.AddCommand(
		newClassifyCmd(opts),
		newLookupCmd(opts),
		newScanCmd(opts),
		newAwardCmd(opts),
		newBadgesCmd(opts),
		newLocalesCmd(opts),
		newSeedCmd(),
	)
	return root
}

// =============================================================================
// CLASSIFY
// =============================================================================

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <score>",
		Short: "Map a risk score to its tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("score must be an integer: %w", err)
			}
			tier := risk.Classify(score)
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"score": risk.ClampScore(score), "tier": tier})
			}
			label := locale.TierLabel(locale.Parse(opts.lang), locale.ScreenAdvisor, tier)
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", risk.ClampScore(score), tier, label)
			return nil
		},
	}
}

// =============================================================================
// LOOKUP
// =============================================================================

func newLookupCmd(opts *rootOptions) *cobra.Command {
	var (
		kindFlag string
		seedPath string
	)
	cmd := &cobra.Command{
		Use:   "lookup <query>",
		Short: "Look a subject up in the seed table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := risk.ParseKind(kindFlag)
			if err != nil {
				return err
			}
			table := risk.DefaultTable()
			if seedPath != "" {
				if table, err = risk.LoadSeedFile(seedPath); err != nil {
					return err
				}
			}
			query := strings.Join(args, " ")
			if strings.TrimSpace(query) == "" {
				return errEmptyQuery
			}
			rec, ok := table.Lookup(kind, query)
			slog.Debug("lookup", "kind", kind, "query", query, "found", ok)
			out := cmd.OutOrStdout()
			if opts.json {
				payload := map[string]any{"found": ok, "query": query}
				if ok {
					payload["result"] = rec
					payload["tier"] = rec.Tier()
				}
				return writeJSON(out, payload)
			}
			loc := locale.Parse(opts.lang)
			screen := locale.ScreenFor(kind)
			if !ok {
				fmt.Fprintln(out, locale.Get(loc, screen, "noResults"))
				return nil
			}
			fmt.Fprintf(out, "%s\t%d\t%s\n", rec.SubjectID, rec.Score, locale.TierLabel(loc, screen, rec.Tier()))
			for _, f := range rec.Flags {
				fmt.Fprintf(out, "  - %s\n", f)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kindFlag, "kind", string(risk.KindAdvisor), "subject kind (advisor, website)")
	cmd.Flags().StringVar(&seedPath, "seed", "", "seed YAML file (defaults to the embedded table)")
	return cmd
}

// =============================================================================
// SCAN
// =============================================================================

func newScanCmd(opts *rootOptions) *cobra.Command {
	var extra []string
	cmd := &cobra.Command{
		Use:   "scan <text>",
		Short: "Report fraud phrases found in a piece of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phrases := scanner.DefaultPhrases()
			for _, p := range extra {
				phrases = append(phrases, scanner.Phrase{Text: p, Severity: scanner.SeverityMedium})
			}
			a, err := scanner.Build(phrases)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			matches := a.Scan(text)
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"matches":  matches,
					"flags":    a.Flags(text),
					"severity": scanner.MaxSeverity(matches),
				})
			}
			for _, m := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", m.Offset, m.Severity, m.Phrase)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&extra, "phrase", nil, "additional phrase to match (repeatable)")
	return cmd
}

// =============================================================================
// AWARD
// =============================================================================

func newAwardCmd(opts *rootOptions) *cobra.Command {
	var start int
	cmd := &cobra.Command{
		Use:   "award <action>...",
		Short: "Replay reward actions from a starting balance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if start < 0 {
				return fmt.Errorf("start must not be negative")
			}
			actions := make([]rewards.Action, 0, len(args))
			for _, a := range args {
				act, err := rewards.ParseAction(a)
				if err != nil {
					return err
				}
				actions = append(actions, act)
			}
			s, unlocks, err := rewards.AwardAll(rewards.NewState(start, rewards.DefaultCatalog()), actions...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, map[string]any{"state": s, "level": s.Level(), "unlocks": unlocks})
			}
			loc := locale.Parse(opts.lang)
			fmt.Fprintf(out, "points=%d level=%d next=%d\n", s.TotalPoints, s.Level(), s.NextLevelPoints())
			for _, u := range unlocks {
				_, body := locale.BadgeToast(loc, u.BadgeID)
				fmt.Fprintln(out, body)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "starting point balance")
	return cmd
}

// =============================================================================
// BADGES
// =============================================================================

func newBadgesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "badges",
		Short: "List the badge catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := rewards.DefaultCatalog()
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), catalog)
			}
			loc := locale.Parse(opts.lang)
			for _, b := range catalog {
				fmt.Fprintf(cmd.OutOrStdout(), "%5d\t%s %s\t%s\n", b.Threshold, locale.BadgeEmoji(b.ID),
					locale.BadgeName(loc, b.ID), locale.BadgeDescription(loc, b.ID))
			}
			return nil
		},
	}
}

// =============================================================================
// LOCALES
// =============================================================================

func newLocalesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "locales [screen]",
		Short: "Print the UI strings of a screen, or list screens",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, s := range locale.Screens() {
					fmt.Fprintln(out, s)
				}
				return nil
			}
			text, err := locale.Text(locale.Parse(opts.lang), args[0])
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(out, text)
			}
			keys := make([]string, 0, len(text))
			for k := range text {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%s\t%s\n", k, text[k])
			}
			return nil
		},
	}
}

// =============================================================================
// SEED
// =============================================================================

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Print the embedded seed document, a starting point for a seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(risk.DefaultSeed())
			return err
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
