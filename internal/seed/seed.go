package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lotusnews/internal/middleware"
	"lotusnews/internal/models"
	"lotusnews/internal/repository"
	"lotusnews/internal/service"
	"lotusnews/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// Summary counts what a run created.
type Summary struct {
	Users    int
	Posts    int
	Votes    int
	Comments int
}

// Seeder drives the services with fake content.
type Seeder struct {
	plan  Plan
	faker *gofakeit.Faker
	clock time.Time

	users    *service.UserService
	posts    *service.PostService
	votes    *service.VoteService
	comments *service.CommentService
}

// NewSeeder builds a seeder writing to store. New posts are not broadcast.
func NewSeeder(store *repository.Store, plan Plan, jwtSecret string) *Seeder {
	seed := plan.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Seeder{
		plan:     plan,
		faker:    gofakeit.New(seed),
		users:    service.NewUserService(store.Users, jwtSecret),
		votes:    service.NewVoteService(store.Votes),
		posts:    service.NewPostService(store.Posts, nil),
		comments: service.NewCommentService(store.Comments, store.Posts),
	}
	s.posts.WithClock(s.now)
	s.comments.WithClock(s.now)
	return s
}

func (s *Seeder) now() time.Time { return s.clock }

// Run creates users, then posts spread over the plan's time window, then
// votes and comment threads on every post.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	if err := s.plan.Validate(); err != nil {
		return nil, err
	}
	sum := &Summary{}

	userIDs := make([]uuid.UUID, 0, s.plan.Users)
	for i := 0; i < s.plan.Users; i++ {
		username := s.username(i)
		res, err := s.users.Signup(ctx, service.SignupInput{
			Email:    username + "@example.com",
			Username: username,
			Password: s.plan.Password,
		})
		if err != nil {
			return sum, fmt.Errorf("seed user %s: %w", username, err)
		}
		userIDs = append(userIDs, res.User.ID)
		sum.Users++
	}

	start := time.Now().UTC()
	for _, author := range userIDs {
		for j := 0; j < s.plan.PostsPerUser; j++ {
			age := time.Duration(s.faker.IntRange(0, s.plan.MaxAgeHours*60)) * time.Minute
			s.clock = start.Add(-age)

			post, err := s.posts.CreatePost(ctx, s.postInput(author))
			if err != nil {
				return sum, fmt.Errorf("seed post: %w", err)
			}
			sum.Posts++

			votes, err := s.vote(ctx, post.ID, userIDs)
			sum.Votes += votes
			if err != nil {
				return sum, err
			}

			comments, err := s.thread(ctx, post, userIDs)
			sum.Comments += comments
			if err != nil {
				return sum, err
			}
		}
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		"users", sum.Users, "posts", sum.Posts, "votes", sum.Votes, "comments", sum.Comments)
	return sum, nil
}

func (s *Seeder) username(i int) string {
	name := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, strings.ToLower(s.faker.FirstName()))
	if len(name) > 12 {
		name = name[:12]
	}
	return fmt.Sprintf("%s_%d", name, i)
}

func (s *Seeder) postInput(author uuid.UUID) service.CreatePostInput {
	in := service.CreatePostInput{
		UserID:           author,
		Title:            strings.TrimSuffix(s.faker.Sentence(s.faker.IntRange(4, 10)), "."),
		ShortDescription: validation.Censor(s.faker.Sentence(12)),
	}
	if s.faker.Float64Range(0, 1) < s.plan.LinkRatio {
		link := fmt.Sprintf("https://%s/%s", s.faker.DomainName(), s.faker.Word())
		in.URL = &link
		in.Title = s.faker.DomainName() + ": " + in.Title
	} else {
		body := validation.Censor(s.faker.Paragraph(2, 4, 12, "\n\n"))
		in.Body = &body
	}
	in.Title = validation.Censor(in.Title)
	if len(in.Title) > validation.MaxTitleLength {
		in.Title = in.Title[:validation.MaxTitleLength]
	}
	return in
}

// vote has a random subset of users vote once each on the post.
func (s *Seeder) vote(ctx context.Context, postID uuid.UUID, userIDs []uuid.UUID) (int, error) {
	n := s.faker.IntRange(0, min(s.plan.MaxVotesPerPost, len(userIDs)))
	count := 0
	for _, idx := range s.pick(len(userIDs), n) {
		value := -1
		if s.faker.Float64Range(0, 1) < s.plan.UpvoteRatio {
			value = 1
		}
		if _, err := s.votes.CastVote(ctx, userIDs[idx], postID, value); err != nil {
			return count, fmt.Errorf("seed vote: %w", err)
		}
		count++
	}
	return count, nil
}

// thread adds comments after the post, each replying to the post or to a
// random earlier comment.
func (s *Seeder) thread(ctx context.Context, post *models.Post, userIDs []uuid.UUID) (int, error) {
	n := s.faker.IntRange(0, s.plan.MaxComments)
	created := make([]uuid.UUID, 0, n)
	s.clock = post.CreatedAt
	for i := 0; i < n; i++ {
		s.clock = s.clock.Add(time.Duration(s.faker.IntRange(1, 30)) * time.Minute)

		in := service.CreateCommentInput{
			UserID: userIDs[s.faker.IntRange(0, len(userIDs)-1)],
			PostID: post.ID,
			Body:   s.faker.Sentence(s.faker.IntRange(3, 25)),
		}
		if len(created) > 0 && s.faker.Bool() {
			parent := created[s.faker.IntRange(0, len(created)-1)]
			in.ParentID = &parent
		}
		c, err := s.comments.CreateComment(ctx, in)
		if err != nil {
			return len(created), fmt.Errorf("seed comment: %w", err)
		}
		created = append(created, c.ID)
	}
	return len(created), nil
}

// pick returns k distinct indexes below n.
func (s *Seeder) pick(n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	s.faker.ShuffleAnySlice(idx)
	return idx[:k]
}
