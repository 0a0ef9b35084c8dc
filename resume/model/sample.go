package model

// Sample returns the fixed record served by the mock extraction strategy.
func Sample() ResumeData {
	return ResumeData{
		PersonalInfo: PersonalInfo{
			Name:     "John Doe",
			Email:    "john.doe@email.com",
			Phone:    "+1 (555) 123-4567",
			Location: "San Francisco, CA",
		},
		Skills: []string{
			"JavaScript",
			"TypeScript",
			"React",
			"Node.js",
			"Python",
			"SQL",
			"AWS",
			"Docker",
			"Git",
			"Agile",
		},
		WorkExperience: []WorkExperience{
			{
				Title:       "Senior Software Engineer",
				Company:     "Tech Solutions Inc.",
				Duration:    "2022 - Present",
				Description: "Lead development of scalable web applications using React and Node.js. Mentored junior developers and improved system performance by 40%.",
			},
			{
				Title:       "Software Engineer",
				Company:     "Digital Innovations LLC",
				Duration:    "2020 - 2022",
				Description: "Developed and maintained full-stack applications. Collaborated with cross-functional teams to deliver high-quality software solutions.",
			},
			{
				Title:       "Junior Developer",
				Company:     "StartUp Ventures",
				Duration:    "2019 - 2020",
				Description: "Built responsive web interfaces and implemented RESTful APIs. Participated in code reviews and agile development processes.",
			},
		},
		Education: []Education{
			{
				Degree:      "Bachelor of Science in Computer Science",
				Institution: "University of California, Berkeley",
				Year:        "2019",
			},
		},
		Certifications: []Certification{
			{Name: "AWS Certified Solutions Architect", Issuer: "Amazon Web Services", Date: "2023"},
			{Name: "Certified Scrum Master", Issuer: "Scrum Alliance", Date: "2022"},
		},
		Achievements: []string{
			"Led a team that increased application performance by 40%",
			"Implemented CI/CD pipeline reducing deployment time by 60%",
			"Mentored 5 junior developers",
			"Won company innovation award for developing automated testing framework",
		},
	}
}
