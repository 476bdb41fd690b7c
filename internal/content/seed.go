package content

import (
	"time"

	"github.com/SanjanaPaudel/Sajha-Sathi/internal/models"
)

// Seed loads the demo feed: four problems around the Kathmandu valley and
// their comment threads. Timestamps are relative to now so the feed always
// looks recent.
func (s *Store) Seed() {
	now := s.now().UTC()

	problems := []models.Problem{
		{
			ID:           "p1",
			UserID:       "user1",
			UserNickname: "BraveTiger",
			Title:        "Struggling with workplace harassment",
			Description:  "I've been facing inappropriate comments at my workplace for weeks. I'm not sure how to address this without risking my job. Has anyone dealt with something similar?",
			Tags:         []string{"workplace", "harassment", "career"},
			Location:     models.Location{Latitude: 27.7172, Longitude: 85.324, Name: "Kathmandu"},
			CreatedAt:    now.Add(-2 * 24 * time.Hour),
			Status:       models.ProblemActive,
		},
		{
			ID:           "p2",
			UserID:       "user2",
			UserNickname: "GentleDolphin",
			Title:        "Anxiety about college entrance exams",
			Description:  "I'm preparing for my entrance exams and feel overwhelmed. The pressure from my family is making it worse. How do you manage study stress?",
			Tags:         []string{"education", "mental health", "stress"},
			Location:     models.Location{Latitude: 27.6588, Longitude: 85.3247, Name: "Patan"},
			CreatedAt:    now.Add(-5 * 24 * time.Hour),
			Status:       models.ProblemActive,
		},
		{
			ID:           "p3",
			UserID:       "user3",
			UserNickname: "WiseElephant",
			Title:        "Safety concerns in my neighborhood",
			Description:  "Recently there have been incidents in my area that make me feel unsafe walking home. Are there any community safety groups or tips for staying safe?",
			Tags:         []string{"safety", "community"},
			Location:     models.Location{Latitude: 27.6710, Longitude: 85.4298, Name: "Bhaktapur"},
			CreatedAt:    now.Add(-1 * 24 * time.Hour),
			Status:       models.ProblemActive,
		},
		{
			ID:           "p4",
			UserID:       "user4",
			UserNickname: "SwiftEagle",
			Title:        "Need career guidance for women in tech",
			Description:  "I'm interested in pursuing a career in technology but don't have many female role models or mentors. Any advice for a woman starting in this field?",
			Tags:         []string{"career", "technology", "women"},
			Location:     models.Location{Latitude: 27.6735, Longitude: 85.4390, Name: "Thimi"},
			CreatedAt:    now.Add(-3 * 24 * time.Hour),
			Status:       models.ProblemActive,
		},
	}

	comments := map[string][]models.Comment{
		"p1": {
			{
				ID: "c1", ProblemID: "p1", UserID: "user5", UserNickname: "KindButterfly",
				Content:   "Document every incident with dates and details. Consider speaking with HR if you have one, or seek advice from a legal aid organization that specializes in workplace issues.",
				CreatedAt: now.Add(-1 * 24 * time.Hour), Upvotes: 7,
			},
			{
				ID: "c2", ProblemID: "p1", UserID: "user6", UserNickname: "BoldWolf",
				Content:   "I experienced something similar. Finding allies at work helped me feel supported. Also, there are NGOs that offer free counseling for workplace harassment.",
				CreatedAt: now.Add(-12 * time.Hour), Upvotes: 4,
			},
			{
				ID: "c3", ProblemID: "p1", UserID: "user7", UserNickname: "HopefulDove",
				Content:   "Some organizations have anonymous reporting systems. Check if your workplace has one. If not, would your supervisor be understanding if you brought this up confidentially?",
				CreatedAt: now.Add(-4 * time.Hour), Upvotes: 3,
			},
		},
		"p2": {
			{
				ID: "c4", ProblemID: "p2", UserID: "user8", UserNickname: "CalmPanda",
				Content:   "Try breaking your study schedule into manageable chunks with short breaks. The Pomodoro technique worked well for me during exam preparation.",
				CreatedAt: now.Add(-4 * 24 * time.Hour), Upvotes: 8,
			},
			{
				ID: "c5", ProblemID: "p2", UserID: "user9", UserNickname: "BrightLion",
				Content:   "Family pressure can be tough. Maybe explain to them that constant pressure is affecting your performance. Sometimes setting boundaries is necessary.",
				CreatedAt: now.Add(-3 * 24 * time.Hour), Upvotes: 6,
			},
		},
		"p3": {
			{
				ID: "c6", ProblemID: "p3", UserID: "user10", UserNickname: "StrongDeer",
				Content:   "See if there's a community safety group in your area. Walking with someone else when possible is also good. Some areas have volunteer escort services too.",
				CreatedAt: now.Add(-12 * time.Hour), Upvotes: 5,
			},
		},
		"p4": {},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.problems = append(s.problems, problems...)
	for problemID, list := range comments {
		s.comments[problemID] = append(s.comments[problemID], list...)
	}
	for i := range s.problems {
		s.problems[i].CommentCount = len(s.comments[s.problems[i].ID])
	}
}
