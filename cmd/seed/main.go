package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/aswathiir/worksyncpluspro/db"
	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// One-shot sample data loader for demos and local development.
func main() {
	reset := flag.Bool("reset", false, "delete all collaboration data before seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if err := db.ConnectDatabase(dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if *reset {
		log.Println("Resetting collaboration data...")
		resetData()
	}

	log.Println("Creating sample collaboration data...")

	org := createOrganization()
	users := createUsers()
	teams := createTeams(org, users)
	createTasks(teams, users)
	createChatData(teams, users)
	createMeetings(teams)
	createActivityMetrics(users)
	createNotifications(users)

	log.Println("Successfully created sample collaboration data!")
}

func resetData() {
	tables := []interface{}{
		&models.ActivityMetrics{},
		&models.Notification{},
		&models.MeetingAttendance{},
		&models.Meeting{},
		&models.ChatMessage{},
		&models.ChatChannel{},
		&models.TaskTimeEntry{},
		&models.Task{},
		&models.TeamMembership{},
		&models.Team{},
		&models.Organization{},
	}

	for _, table := range tables {
		if err := db.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			log.Fatalf("Failed to reset %T: %v", table, err)
		}
	}
}

func createOrganization() models.Organization {
	org := models.Organization{
		Name:        "TechCorp Solutions",
		Description: "A leading technology solutions company focused on innovation and collaboration.",
	}

	if err := db.DB.Where(models.Organization{Name: org.Name}).
		FirstOrCreate(&org).Error; err != nil {
		log.Fatalf("Failed to create organization: %v", err)
	}

	log.Printf("Created organization: %s", org.Name)
	return org
}

func createUsers() []models.User {
	names := []string{"John Doe", "Jane Smith", "Mike Johnson", "Sarah Wilson", "David Brown"}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	users := make([]models.User, 0, len(names))

	for _, name := range names {
		first := strings.ToLower(strings.Fields(name)[0])

		user := models.User{
			Name:         name,
			Email:        first + "@techcorp.com",
			PasswordHash: string(passwordHash),
		}

		if err := db.DB.Where(models.User{Email: user.Email}).
			FirstOrCreate(&user).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", name, err)
		}

		log.Printf("Created user: %s", user.Email)
		users = append(users, user)
	}

	return users
}

type teamSeed struct {
	name        string
	description string
	lead        int
}

func createTeams(org models.Organization, users []models.User) []models.Team {
	seeds := []teamSeed{
		{"Development Team", "Frontend and backend developers", 0},
		{"Design Team", "UI/UX designers and creative team", 1},
		{"QA Team", "Quality assurance and testing team", 2},
	}

	teams := make([]models.Team, 0, len(seeds))

	for _, seed := range seeds {
		lead := users[seed.lead]

		team := models.Team{
			Name:           seed.name,
			Description:    seed.description,
			OrganizationID: org.ID,
			LeadID:         &lead.ID,
		}

		if err := db.DB.Where(models.Team{Name: seed.name, OrganizationID: org.ID}).
			FirstOrCreate(&team).Error; err != nil {
			log.Fatalf("Failed to create team %s: %v", seed.name, err)
		}

		memberCount := 2 + rand.Intn(3)
		members := pickUsers(users, lead, memberCount)

		for _, member := range members {
			role := models.RoleMember

			if member.ID == lead.ID {
				role = models.RoleLead
			}

			membership := models.TeamMembership{
				UserID:   member.ID,
				TeamID:   team.ID,
				Role:     role,
				JoinedAt: time.Now(),
			}

			if err := db.DB.Where(models.TeamMembership{UserID: member.ID, TeamID: team.ID}).
				FirstOrCreate(&membership).Error; err != nil {
				log.Fatalf("Failed to create membership: %v", err)
			}
		}

		log.Printf("Created team: %s with %d members", team.Name, len(members))
		teams = append(teams, team)
	}

	return teams
}

// pickUsers returns the lead plus count-1 other users, without duplicates.
func pickUsers(users []models.User, lead models.User, count int) []models.User {
	picked := []models.User{lead}
	perm := rand.Perm(len(users))

	for _, i := range perm {
		if len(picked) >= count {
			break
		}

		if users[i].ID != lead.ID {
			picked = append(picked, users[i])
		}
	}

	return picked
}

func createTasks(teams []models.Team, users []models.User) {
	titles := []string{
		"Implement user authentication system",
		"Design new dashboard layout",
		"Fix login page responsiveness",
		"Create API documentation",
		"Set up automated testing",
		"Optimize database queries",
		"Design mobile app wireframes",
		"Implement real-time notifications",
		"Create user onboarding flow",
		"Fix security vulnerabilities",
	}

	statuses := []string{
		models.TaskStatusTodo,
		models.TaskStatusInProgress,
		models.TaskStatusReview,
		models.TaskStatusDone,
	}

	priorities := []string{
		models.TaskPriorityLow,
		models.TaskPriorityMedium,
		models.TaskPriorityHigh,
		models.TaskPriorityUrgent,
	}

	for _, title := range titles {
		team := teams[rand.Intn(len(teams))]
		assignee := users[rand.Intn(len(users))]
		reporter := users[rand.Intn(len(users))]
		estimate := float64(2 + rand.Intn(19))
		due := time.Now().AddDate(0, 0, 1+rand.Intn(30))

		task := models.Task{
			Title:          title,
			Description:    "Detailed description for " + strings.ToLower(title),
			Status:         statuses[rand.Intn(len(statuses))],
			Priority:       priorities[rand.Intn(len(priorities))],
			AssigneeID:     &assignee.ID,
			ReporterID:     reporter.ID,
			TeamID:         team.ID,
			EstimatedHours: &estimate,
			ActualHours:    float64(rand.Intn(16)),
			DueDate:        &due,
		}

		if task.Status == models.TaskStatusDone {
			completedAt := time.Now().AddDate(0, 0, -rand.Intn(7))
			task.CompletedAt = &completedAt
		}

		if err := db.DB.Create(&task).Error; err != nil {
			log.Fatalf("Failed to create task: %v", err)
		}

		if rand.Intn(2) == 0 {
			start := time.Now().Add(-time.Duration(1+rand.Intn(8)) * time.Hour)
			end := time.Now().Add(-time.Duration(rand.Intn(3)) * time.Hour)

			entry := models.TaskTimeEntry{
				TaskID:          task.ID,
				UserID:          assignee.ID,
				StartTime:       start,
				EndTime:         &end,
				DurationMinutes: 30 + rand.Intn(211),
				ActivityScore:   0.6 + rand.Float64()*0.4,
				ScreenshotCount: 5 + rand.Intn(21),
			}

			if err := db.DB.Create(&entry).Error; err != nil {
				log.Fatalf("Failed to create time entry: %v", err)
			}
		}
	}

	log.Printf("Created %d tasks", len(titles))
}

func createChatData(teams []models.Team, users []models.User) {
	for _, team := range teams {
		members := teamMembers(team.ID)

		channel := models.ChatChannel{
			Name:        strings.ReplaceAll(strings.ToLower(team.Name), " ", "-"),
			Description: "General discussion for " + team.Name,
			ChannelType: models.ChannelTypeTeam,
			TeamID:      &team.ID,
			Members:     members,
		}

		if err := db.DB.Create(&channel).Error; err != nil {
			log.Fatalf("Failed to create channel: %v", err)
		}

		messageCount := 10 + rand.Intn(16)

		for i := 0; i < messageCount; i++ {
			sender := members[rand.Intn(len(members))]

			message := models.ChatMessage{
				ChannelID: channel.ID,
				SenderID:  sender.ID,
				Content:   fmt.Sprintf("Sample message %d from %s", i+1, strings.Fields(sender.Name)[0]),
			}

			if err := db.DB.Create(&message).Error; err != nil {
				log.Fatalf("Failed to create message: %v", err)
			}
		}
	}

	general := models.ChatChannel{
		Name:        "general",
		Description: "General company discussion",
		ChannelType: models.ChannelTypeGeneral,
		Members:     users,
	}

	if err := db.DB.Create(&general).Error; err != nil {
		log.Fatalf("Failed to create general channel: %v", err)
	}

	log.Printf("Created %d chat channels with messages", len(teams)+1)
}

func teamMembers(teamID uuid.UUID) []models.User {
	var members []models.User

	err := db.DB.
		Joins("JOIN team_memberships ON team_memberships.user_id = users.id").
		Where("team_memberships.team_id = ?", teamID).
		Find(&members).Error

	if err != nil || len(members) == 0 {
		log.Fatalf("Failed to load team members: %v", err)
	}

	return members
}

func createMeetings(teams []models.Team) {
	titles := []string{
		"Weekly Team Standup",
		"Sprint Planning Meeting",
		"Design Review Session",
		"Client Presentation",
		"Code Review Meeting",
	}

	attendanceStatuses := []string{
		models.AttendanceInvited,
		models.AttendanceAccepted,
		models.AttendanceAttended,
	}

	for _, title := range titles {
		team := teams[rand.Intn(len(teams))]
		members := teamMembers(team.ID)
		organizer := members[0]

		if team.LeadID != nil {
			for _, member := range members {
				if member.ID == *team.LeadID {
					organizer = member
					break
				}
			}
		}

		start := time.Now().AddDate(0, 0, rand.Intn(22)-7)

		status := models.MeetingStatusScheduled

		if rand.Intn(2) == 0 {
			status = models.MeetingStatusCompleted
		}

		meeting := models.Meeting{
			Title:       title,
			Description: "Description for " + title,
			Status:      status,
			StartTime:   start,
			EndTime:     start.Add(time.Hour),
			Timezone:    "UTC",
			OrganizerID: organizer.ID,
			TeamID:      &team.ID,
		}

		if err := db.DB.Create(&meeting).Error; err != nil {
			log.Fatalf("Failed to create meeting: %v", err)
		}

		attendeeCount := 2 + rand.Intn(len(members)-1)

		for i := 0; i < attendeeCount && i < len(members); i++ {
			attendance := models.MeetingAttendance{
				MeetingID:       meeting.ID,
				UserID:          members[i].ID,
				Status:          attendanceStatuses[rand.Intn(len(attendanceStatuses))],
				EngagementScore: 0.5 + rand.Float64()*0.5,
				AttentionScore:  0.6 + rand.Float64()*0.4,
			}

			if err := db.DB.Create(&attendance).Error; err != nil {
				log.Fatalf("Failed to create attendance: %v", err)
			}
		}
	}

	log.Printf("Created %d meetings", len(titles))
}

func createActivityMetrics(users []models.User) {
	applications, _ := json.Marshal([]string{"VS Code", "Chrome", "Slack", "Figma"})
	websites, _ := json.Marshal([]string{"github.com", "stackoverflow.com", "go.dev"})

	for _, user := range users {
		for daysAgo := 0; daysAgo < 30; daysAgo++ {
			day := time.Now().UTC().AddDate(0, 0, -daysAgo)
			date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

			metrics := models.ActivityMetrics{
				UserID:             user.ID,
				Date:               date,
				TotalWorkMinutes:   300 + rand.Intn(181),
				ActiveMinutes:      250 + rand.Intn(151),
				IdleMinutes:        50 + rand.Intn(51),
				TasksCompleted:     rand.Intn(4),
				TasksStarted:       rand.Intn(3),
				MeetingsAttended:   rand.Intn(4),
				ChatMessagesSent:   5 + rand.Intn(21),
				ScreenshotsTaken:   20 + rand.Intn(41),
				ApplicationsUsed:   datatypes.JSON(applications),
				WebsitesVisited:    datatypes.JSON(websites),
				ProductivityScore:  0.6 + rand.Float64()*0.4,
				EngagementScore:    0.5 + rand.Float64()*0.5,
				CollaborationScore: 0.7 + rand.Float64()*0.3,
			}

			if err := db.DB.Where(models.ActivityMetrics{UserID: user.ID, Date: date}).
				FirstOrCreate(&metrics).Error; err != nil {
				log.Fatalf("Failed to create activity metrics: %v", err)
			}
		}
	}

	log.Printf("Created activity metrics for %d users over 30 days", len(users))
}

func createNotifications(users []models.User) {
	kinds := []struct {
		notificationType string
		title            string
	}{
		{models.NotificationTaskAssigned, "New Task Assigned"},
		{models.NotificationTaskCompleted, "Task Completed"},
		{models.NotificationMeetingReminder, "Meeting Reminder"},
		{models.NotificationChatMention, "You were mentioned in chat"},
		{models.NotificationSystem, "System Update Available"},
	}

	for _, user := range users {
		count := 3 + rand.Intn(6)

		for i := 0; i < count; i++ {
			kind := kinds[rand.Intn(len(kinds))]

			notification := models.Notification{
				RecipientID:      user.ID,
				NotificationType: kind.notificationType,
				Title:            kind.title,
				Message:          "Sample notification message for " + strings.Fields(user.Name)[0],
				IsRead:           rand.Intn(2) == 0,
			}

			if notification.IsRead {
				readAt := time.Now().Add(-time.Duration(rand.Intn(48)) * time.Hour)
				notification.ReadAt = &readAt
			}

			if err := db.DB.Create(&notification).Error; err != nil {
				log.Fatalf("Failed to create notification: %v", err)
			}
		}
	}

	log.Printf("Created notifications for %d users", len(users))
}
