package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"

	"techsocial/internal/api"
	"techsocial/internal/auth"
	"techsocial/internal/config"
	"techsocial/internal/feed"
	"techsocial/internal/models"
	"techsocial/internal/utils"
)

func main() {
	var (
		signIn     = flag.Bool("signin", false, "sign in with -email and -password")
		signOut    = flag.Bool("signout", false, "sign out and clear stored credentials")
		email      = flag.String("email", "", "email for -signin")
		password   = flag.String("password", "", "password for -signin")
		showFeed   = flag.Bool("feed", false, "load and print the feed")
		pages      = flag.Int("pages", 1, "number of pages to load with -feed")
		all        = flag.Bool("all", false, "load the entire feed with -feed")
		refresh    = flag.Bool("refresh", false, "refresh the feed from page 0 before printing")
		likeID     = flag.Int("like", 0, "toggle like on a post id (loads the feed first)")
		createPost = flag.Bool("post", false, "create a post from -title and -body")
		editID     = flag.Int("edit", 0, "edit a post id using -title and -body")
		deleteID   = flag.Int("delete", 0, "delete a post id")
		title      = flag.String("title", "", "post title")
		body       = flag.String("body", "", "post or comment body")
		commentsID = flag.Int("comments", 0, "list comments for a post id")
		commentID  = flag.Int("comment", 0, "comment on a post id using -body")
		page       = flag.Int("page", 0, "page number for -comments")
		profile    = flag.Bool("profile", false, "print the signed-in profile")
		updateProf = flag.Bool("update-profile", false, "update profile from -username, -bio, -interests")
		userName   = flag.String("username", "", "user name for -update-profile")
		bio        = flag.String("bio", "", "bio for -update-profile")
		interests  = flag.String("interests", "", "tech interests for -update-profile")
		debug      = flag.Bool("debug", false, "verbose logging and a metrics dump at exit")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Debug = true
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	store := auth.NewFileStore(cfg.CredentialsFile, cfg.CredentialsPassphrase)
	session := auth.NewSession(store)
	metrics := utils.NewMetricsCollector()
	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, session, metrics)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *signIn {
		if *email == "" || *password == "" {
			fatal("signin requires -email and -password")
		}
		user, err := session.SignIn(ctx, client, *email, *password)
		if err != nil {
			fatal("sign in failed: %v", err)
		}
		fmt.Printf("signed in as %s (%s)\n", user.UserName, user.UserUUID)
		finish(cfg, metrics)
		return
	}

	if *signOut {
		session.SignOut()
		fmt.Println("signed out")
		finish(cfg, metrics)
		return
	}

	// Everything below needs an authenticated session.
	if _, err := session.Resume(ctx, client); err != nil {
		fatal("not signed in (run with -signin): %v", err)
	}

	switch {
	case *profile:
		printProfile(session.CurrentUser())

	case *updateProf:
		if err := session.UpdateProfile(ctx, client, *userName, *bio, *interests); err != nil {
			fatal("update profile failed: %v", err)
		}
		fmt.Println("profile updated")

	case *createPost:
		post, err := client.CreatePost(ctx, *title, *body)
		if err != nil {
			fatal("create post failed: %v", err)
		}
		fmt.Printf("created post %d: %s\n", post.PostID, post.Title)

	case *editID != 0:
		post, err := client.EditPost(ctx, *editID, *title, *body)
		if err != nil {
			fatal("edit post failed: %v", err)
		}
		fmt.Printf("edited post %d: %s\n", post.PostID, post.Title)

	case *deleteID != 0:
		if err := client.DeletePost(ctx, *deleteID); err != nil {
			fatal("delete post failed: %v", err)
		}
		fmt.Printf("deleted post %d\n", *deleteID)

	case *commentsID != 0:
		comments, err := client.ListComments(ctx, *commentsID, *page)
		if err != nil {
			fatal("list comments failed: %v", err)
		}
		for _, c := range comments {
			fmt.Printf("#%d %s (%s): %s\n", c.CommentID, c.UserName, c.CreatedDate, c.Body)
		}

	case *commentID != 0:
		comment, err := client.CreateComment(ctx, *commentID, *body)
		if err != nil {
			fatal("create comment failed: %v", err)
		}
		if comment != nil {
			fmt.Printf("created comment %d\n", comment.CommentID)
		} else {
			fmt.Println("comment created")
		}

	case *showFeed || *refresh || *likeID != 0:
		runFeed(cfg, client, *pages, *all, *refresh, *likeID)

	default:
		flag.Usage()
	}

	finish(cfg, metrics)
}

func runFeed(cfg *config.Config, client *api.Client, pages int, all, refresh bool, likeID int) {
	system := actor.NewActorSystem()
	sync := feed.NewSynchronizer(system, client, cfg.PageFetchTimeout)
	defer sync.Stop()

	var err error
	switch {
	case refresh:
		_, err = sync.Refresh()
	case all:
		_, err = sync.LoadAll()
	default:
		for i := 0; i < pages && sync.HasMore(); i++ {
			if _, err = sync.LoadNextPage(); err != nil {
				break
			}
		}
	}
	if err != nil {
		fatal("feed load failed: %v", err)
	}

	if likeID != 0 {
		post, err := sync.ToggleLike(likeID)
		if err != nil {
			fatal("toggle like failed: %v", err)
		}
		fmt.Printf("post %d now has %d likes (liked=%v)\n", post.PostID, post.Likes, post.UserLiked)
	}

	printPosts(sync.Posts())
	if !sync.HasMore() {
		fmt.Println("(end of feed)")
	}
}

func printPosts(posts []models.Post) {
	for _, p := range posts {
		liked := " "
		if p.UserLiked {
			liked = "*"
		}
		fmt.Printf("%s #%-5d %s - %s (%d likes, %d comments)\n",
			liked, p.PostID, p.CreatedDate, p.Title, p.Likes, p.NumComments)
	}
}

func printProfile(user *models.User) {
	if user == nil {
		fmt.Println("no profile loaded")
		return
	}
	fmt.Printf("%s %s (@%s) - %s\n", user.FirstName, user.LastName, user.UserName, user.Email)
	if user.Bio != nil {
		fmt.Println("bio:", *user.Bio)
	}
	if user.TechInterests != nil {
		fmt.Println("interests:", *user.TechInterests)
	}
	if user.Followers != nil && user.Following != nil {
		fmt.Printf("%d followers, %d following\n", *user.Followers, *user.Following)
	}
}

func finish(cfg *config.Config, metrics *utils.MetricsCollector) {
	if !cfg.Debug {
		return
	}
	snap := metrics.Snapshot()
	slog.Debug("request metrics", "requests", snap.Requests, "errors", snap.Errors)
	for endpoint, stats := range snap.Endpoints {
		slog.Debug("endpoint", "path", endpoint, "requests", stats.Requests, "avgLatency", stats.AverageLatency)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
