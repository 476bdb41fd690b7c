// Command sajhasathi is a terminal stand-in for the browser UI: each
// invocation performs one session or feed operation against the shared
// durable state, so a session established by one run is still current in
// the next.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SanjanaPaudel/Sajha-Sathi/internal/app"
	"github.com/SanjanaPaudel/Sajha-Sathi/internal/content"
	"github.com/SanjanaPaudel/Sajha-Sathi/internal/session"
	"github.com/SanjanaPaudel/Sajha-Sathi/pkg/logger"
)

var application *app.Application

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "sajhasathi",
		Short:         "Community support feed and session tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if err := app.ConfigureLogging(cfg.Log.Level); err != nil {
				return err
			}
			application, err = app.New(cfg)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")

	cmd.AddCommand(
		anonymousCmd(),
		loginCmd(),
		signupCmd(),
		logoutCmd(),
		whoamiCmd(),
		feedCmd(),
		problemCmd(),
		commentCmd(),
		notificationsCmd(),
		profileCmd(),
	)
	return cmd
}

func anonymousCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "anonymous",
		Short: "Enter with a freshly generated anonymous identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := application.Sessions.EnterAnonymously(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Welcome, %s!\n", user.Nickname)
			return nil
		},
	}
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password (blank credentials enter anonymously)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := application.Sessions.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Welcome back, %s!\n", user.Nickname)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func signupCmd() *cobra.Command {
	var email, password, nickname string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a registered account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := application.Sessions.Signup(cmd.Context(), email, password, nickname)
			if err != nil {
				return err
			}
			fmt.Printf("Account created. Welcome, %s!\n", user.Nickname)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&nickname, "nickname", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("nickname")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := application.Sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user and unread notification count",
		RunE: func(*cobra.Command, []string) error {
			user := application.Sessions.CurrentUser()
			if user == nil {
				fmt.Println("Not logged in.")
				return nil
			}
			kind := "registered"
			if user.IsAnonymous {
				kind = "anonymous"
			}
			fmt.Printf("%s (%s)\n", user.Nickname, kind)
			if user.Email != "" {
				fmt.Printf("  email: %s\n", user.Email)
			}
			if user.Bio != "" {
				fmt.Printf("  bio:   %s\n", user.Bio)
			}
			fmt.Printf("  unread notifications: %d\n", application.Sessions.UnreadCount())
			return nil
		},
	}
}

func feedCmd() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Browse the problem feed",
		RunE: func(*cobra.Command, []string) error {
			problems := application.Content.FilterByTag(tag)
			if len(problems) == 0 {
				fmt.Println("No problems found.")
				return nil
			}
			for _, p := range problems {
				author := p.UserNickname
				if p.IsAnonymous {
					author = "Anonymous"
				}
				fmt.Printf("%s  %s\n", p.ID, p.Title)
				fmt.Printf("    by %s near %s · %d comments · %s\n",
					author, p.Location.Name, p.CommentCount, strings.Join(p.Tags, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "only show problems with this tag")
	return cmd
}

func problemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "problem <id>",
		Short: "Show a problem and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			problem, err := application.Content.GetProblem(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s\n%s\n", problem.Title, problem.Description)

			var viewerID string
			if user := application.Sessions.CurrentUser(); user != nil {
				viewerID = user.ID
			}
			for _, c := range application.Content.ListComments(problem.ID, viewerID) {
				marker := " "
				if c.HasUserUpvoted {
					marker = "*"
				}
				fmt.Printf("  [%s] %s (%d%s): %s\n", c.ID, c.UserNickname, c.Upvotes, marker, c.Content)
			}
			return nil
		},
	}
}

func commentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <problem-id> <content>",
		Short: "Comment on a problem as the current user",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := application.Sessions.CurrentUser()
			if user == nil {
				return fmt.Errorf("log in or enter anonymously first")
			}

			comment, err := application.Content.AddComment(cmd.Context(), user, content.AddCommentInput{
				ProblemID: args[0],
				Content:   strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}
			fmt.Printf("Comment %s added.\n", comment.ID)
			return nil
		},
	}
}

func notificationsCmd() *cobra.Command {
	var markRead string
	var markAllRead bool

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications, optionally marking them read",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if markAllRead {
				if err := application.Sessions.MarkAllNotificationsRead(cmd.Context()); err != nil {
					return err
				}
			} else if markRead != "" {
				if err := application.Sessions.MarkNotificationRead(cmd.Context(), markRead); err != nil {
					return err
				}
			}

			list := application.Sessions.Notifications()
			if len(list) == 0 {
				fmt.Println("No notifications.")
				return nil
			}
			for _, n := range list {
				status := "unread"
				if n.Read {
					status = "read"
				}
				fmt.Printf("[%s] (%s) %s: %s\n", n.ID, status, n.Title, n.Message)
			}
			fmt.Printf("%d unread\n", application.Sessions.UnreadCount())
			return nil
		},
	}
	cmd.Flags().StringVar(&markRead, "mark-read", "", "mark the notification with this id as read")
	cmd.Flags().BoolVar(&markAllRead, "mark-all-read", false, "mark every notification as read")
	return cmd
}

func profileCmd() *cobra.Command {
	var nickname, bio, picture string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the current user's profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var update session.ProfileUpdate
			if cmd.Flags().Changed("nickname") {
				update.Nickname = &nickname
			}
			if cmd.Flags().Changed("bio") {
				update.Bio = &bio
			}
			if cmd.Flags().Changed("picture") {
				update.ProfilePicture = &picture
			}
			if err := application.Sessions.UpdateProfile(cmd.Context(), update); err != nil {
				return err
			}
			fmt.Println("Profile updated.")
			return nil
		},
	}
	cmd.Flags().StringVar(&nickname, "nickname", "", "new display name")
	cmd.Flags().StringVar(&bio, "bio", "", "new bio")
	cmd.Flags().StringVar(&picture, "picture", "", "new profile picture URL")
	return cmd
}
