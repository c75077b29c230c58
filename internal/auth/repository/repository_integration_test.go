//go:build integration

package repository_test

import (
	"sync"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/domain"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/repository"
)

func newUser(username, email string) domain.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.User{
		ID:           domain.UserID(uuid.NewString()),
		Username:     username,
		Email:        email,
		PasswordHash: []byte("hash"),
		PasswordSalt: []byte("salt"),
		DateOfBirth:  time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

var _ = Describe("PgUserRepository", func() {
	BeforeEach(func() {
		env.truncate()
	})

	It("creates a user and finds it by email, username and id", func() {
		user := newUser("alice", "alice@example.com")
		Expect(env.Users.Create(env.ctx, user)).To(Succeed())

		byEmail, err := env.Users.FindByEmailOrUsername(env.ctx, "alice@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(byEmail.ID).To(Equal(user.ID))

		byName, err := env.Users.FindByEmailOrUsername(env.ctx, "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(byName.ID).To(Equal(user.ID))

		byID, err := env.Users.FindByID(env.ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(byID.PasswordSalt).To(Equal([]byte("salt")))
	})

	It("prefers the email match when an identifier is ambiguous", func() {
		owner := newUser("owner", "shared@example.com")
		squatter := newUser("shared@example.com", "squatter@example.com")
		Expect(env.Users.Create(env.ctx, squatter)).To(Succeed())
		Expect(env.Users.Create(env.ctx, owner)).To(Succeed())

		found, err := env.Users.FindByEmailOrUsername(env.ctx, "shared@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(found.ID).To(Equal(owner.ID))
	})

	It("rejects duplicate emails and usernames", func() {
		Expect(env.Users.Create(env.ctx, newUser("alice", "alice@example.com"))).To(Succeed())

		err := env.Users.Create(env.ctx, newUser("alice2", "alice@example.com"))
		Expect(err).To(MatchError(repository.ErrEmailAlreadyExists))

		err = env.Users.Create(env.ctx, newUser("alice", "other@example.com"))
		Expect(err).To(MatchError(repository.ErrUsernameAlreadyExists))
	})

	It("lets exactly one concurrent registration win", func() {
		const attempts = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				user := newUser("racer"+uuid.NewString()[:8], "race@example.com")
				if err := env.Users.Create(env.ctx, user); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				} else {
					Expect(err).To(MatchError(repository.ErrEmailAlreadyExists))
				}
			}()
		}
		wg.Wait()
		Expect(successes).To(Equal(1))
	})

	It("applies partial profile updates", func() {
		user := newUser("bob", "bob@example.com")
		Expect(env.Users.Create(env.ctx, user)).To(Succeed())

		picture := "https://cdn.example.com/bob.png"
		updated, err := env.Users.UpdateProfile(env.ctx, user.ID, domain.ProfileUpdate{ProfilePicture: &picture})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.ProfilePicture).To(Equal(picture))
		Expect(updated.Username).To(Equal("bob"))
		Expect(updated.Email).To(Equal("bob@example.com"))
	})

	It("maps a username collision on update", func() {
		Expect(env.Users.Create(env.ctx, newUser("carol", "carol@example.com"))).To(Succeed())
		dave := newUser("dave", "dave@example.com")
		Expect(env.Users.Create(env.ctx, dave)).To(Succeed())

		taken := "carol"
		_, err := env.Users.UpdateProfile(env.ctx, dave.ID, domain.ProfileUpdate{Username: &taken})
		Expect(err).To(MatchError(repository.ErrUsernameAlreadyExists))
	})

	It("redeems a reset token only once", func() {
		user := newUser("erin", "erin@example.com")
		Expect(env.Users.Create(env.ctx, user)).To(Succeed())
		Expect(env.Users.SetResetToken(env.ctx, user.ID, "digest", time.Now().Add(time.Hour))).To(Succeed())

		found, err := env.Users.FindByResetTokenHash(env.ctx, "digest")
		Expect(err).NotTo(HaveOccurred())
		Expect(found.ID).To(Equal(user.ID))

		Expect(env.Users.ResetPassword(env.ctx, user.ID, "digest", []byte("new"))).To(Succeed())
		err = env.Users.ResetPassword(env.ctx, user.ID, "digest", []byte("newer"))
		Expect(err).To(MatchError(repository.ErrResetTokenNotFound))

		_, err = env.Users.FindByResetTokenHash(env.ctx, "digest")
		Expect(err).To(MatchError(repository.ErrResetTokenNotFound))
	})

	It("clears expired reset tokens", func() {
		user := newUser("frank", "frank@example.com")
		Expect(env.Users.Create(env.ctx, user)).To(Succeed())
		Expect(env.Users.SetResetToken(env.ctx, user.ID, "stale", time.Now().Add(-time.Minute))).To(Succeed())

		cleared, err := env.Users.DeleteExpired(env.ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(cleared).To(Equal(int64(1)))
	})
})

var _ = Describe("PgRevokedTokenRepository", func() {
	var user domain.User

	BeforeEach(func() {
		env.truncate()
		user = newUser("gina", "gina@example.com")
		Expect(env.Users.Create(env.ctx, user)).To(Succeed())
	})

	It("reports revoked tokens until they expire", func() {
		Expect(env.Revoked.Revoke(env.ctx, "jti-live", user.ID, time.Now().Add(time.Hour))).To(Succeed())
		Expect(env.Revoked.Revoke(env.ctx, "jti-old", user.ID, time.Now().Add(-time.Hour))).To(Succeed())

		revoked, err := env.Revoked.IsRevoked(env.ctx, "jti-live")
		Expect(err).NotTo(HaveOccurred())
		Expect(revoked).To(BeTrue())

		deleted, err := env.Revoked.DeleteExpired(env.ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(deleted).To(Equal(int64(1)))

		revoked, err = env.Revoked.IsRevoked(env.ctx, "jti-old")
		Expect(err).NotTo(HaveOccurred())
		Expect(revoked).To(BeFalse())
	})

	It("treats a repeated revoke as a no-op", func() {
		expires := time.Now().Add(time.Hour)
		Expect(env.Revoked.Revoke(env.ctx, "jti-dup", user.ID, expires)).To(Succeed())
		Expect(env.Revoked.Revoke(env.ctx, "jti-dup", user.ID, expires)).To(Succeed())
	})
})
