package roadmap

// WeeksPerGoal is the length of every topic sequence in the catalog.
const WeeksPerGoal = 8

// goalOrder is the presentation order of the goal selection form.
var goalOrder = []string{
	"Web Development",
	"Data Analyst",
	"Cyber Security",
	"Android Development",
	"Machine Learning",
	"Cloud Computing",
	"DevOps Engineering",
	"UI/UX Design",
	"Game Development",
	"Blockchain Development",
	"iOS Development",
	"Data Science",
	"Full Stack Development",
	"Digital Marketing",
	"Python Programming",
}

var catalog = map[string][]string{
	"Web Development": {
		"HTML + CSS Basics", "JavaScript Basics", "Bootstrap + Responsive Design",
		"Python Flask Basics", "Database + SQLite", "Authentication System",
		"APIs + JSON", "Final Project + Deployment",
	},
	"Data Analyst": {
		"Python Basics", "NumPy + Pandas", "Data Cleaning",
		"Matplotlib + Visualization", "SQL Basics", "Exploratory Data Analysis",
		"Mini Project", "Portfolio + Resume",
	},
	"Cyber Security": {
		"Networking Basics", "Linux Basics", "Security Fundamentals",
		"Web Security Basics", "Cryptography Intro", "Tools: Nmap/Wireshark",
		"CTF Practice", "Final Security Project",
	},
	"Android Development": {
		"Java/Kotlin Basics", "Android UI", "Layouts + Activities",
		"Firebase Basics", "API Integration", "RecyclerView + Storage",
		"Mini App", "Final App + Publish",
	},
	"Machine Learning": {
		"Python + Math Refresher", "NumPy + Pandas", "Supervised Learning",
		"Unsupervised Learning", "Model Evaluation", "Scikit-learn Pipelines",
		"Intro to Neural Networks", "Final ML Project",
	},
	"Cloud Computing": {
		"Cloud Concepts", "Linux + Networking", "Compute + Storage Services",
		"Identity + Access Management", "Databases in the Cloud", "Serverless Basics",
		"Monitoring + Cost Control", "Cloud Deployment Project",
	},
	"DevOps Engineering": {
		"Linux + Shell Scripting", "Git Workflows", "CI/CD Pipelines",
		"Docker Basics", "Kubernetes Basics", "Infrastructure as Code",
		"Monitoring + Logging", "End-to-End Pipeline Project",
	},
	"UI/UX Design": {
		"Design Principles", "User Research", "Wireframing",
		"Figma Basics", "Prototyping", "Usability Testing",
		"Design Systems", "Case Study Portfolio",
	},
	"Game Development": {
		"Programming Basics", "Game Engine Intro", "2D Game Mechanics",
		"Physics + Collisions", "Game UI + Audio", "Level Design",
		"Playtesting + Polish", "Publish a Game",
	},
	"Blockchain Development": {
		"Blockchain Fundamentals", "Cryptography Basics", "Ethereum + Wallets",
		"Solidity Basics", "Smart Contract Testing", "Web3 Frontend",
		"Security + Auditing", "Final DApp Project",
	},
	"iOS Development": {
		"Swift Basics", "Xcode + Interface Builder", "SwiftUI Views",
		"Navigation + State", "Networking + JSON", "Core Data Storage",
		"Mini App", "Final App + App Store",
	},
	"Data Science": {
		"Python + Statistics", "Data Wrangling", "Data Visualization",
		"Probability + Inference", "Machine Learning Basics", "Feature Engineering",
		"Storytelling with Data", "Capstone Project",
	},
	"Full Stack Development": {
		"HTML + CSS + JavaScript", "Frontend Framework", "Backend Basics",
		"REST APIs", "Databases + ORM", "Authentication + Security",
		"Testing + CI", "Full Stack Project + Deployment",
	},
	"Digital Marketing": {
		"Marketing Fundamentals", "SEO Basics", "Content Marketing",
		"Social Media Marketing", "Email Marketing", "Paid Ads Basics",
		"Analytics + Reporting", "Campaign Project",
	},
	"Python Programming": {
		"Syntax + Data Types", "Control Flow + Functions", "Data Structures",
		"Modules + Packages", "File Handling + Errors", "Object-Oriented Python",
		"Testing + Virtual Environments", "Final Python Project",
	},
}

// defaultTopics is used for goals the catalog does not know.
var defaultTopics = []string{
	"Basics", "Intermediate Concepts", "Project Planning",
	"Development", "Testing", "Improvement",
	"Documentation", "Final Submission",
}

// Goals returns the recognized goal labels in presentation order.
func Goals() []string {
	out := make([]string, len(goalOrder))
	copy(out, goalOrder)
	return out
}

// Topics returns the week-ordered topics for goal. Unknown goals get the
// generic sequence.
func Topics(goal string) []string {
	topics, ok := catalog[goal]
	if !ok {
		topics = defaultTopics
	}
	out := make([]string, len(topics))
	copy(out, topics)
	return out
}

// Build expands goals into pending items under the given roadmap name.
// Week numbers restart at 1 for each goal.
func Build(userID int64, name string, goals []string) []Item {
	items := make([]Item, 0, len(goals)*WeeksPerGoal)
	for _, goal := range goals {
		for i, topic := range Topics(goal) {
			items = append(items, Item{
				UserID: userID,
				Name:   name,
				Goal:   goal,
				Week:   i + 1,
				Topic:  topic,
				Status: StatusPending,
			})
		}
	}
	return items
}
