package content

// Default returns the portfolio the site ships with.
func Default() *Portfolio {
	return &Portfolio{
		Profile: Profile{
			Name:    "Fathurrahman Nasution",
			Tagline: "Computer Science Student | Cybersecurity Enthusiast | Web Developer",
			Summary: "Passionate about cybersecurity and web development, with experience in CTF challenges and full-stack applications",
			Bio: `I am a fifth-semester Computer Science student at the University of North Sumatera with a passion for
Web Programming and Cybersecurity. Over the past two years, I have built web applications using PHP,
JavaScript, and PostgreSQL databases like Supabase and Neon.

I have deepened my security skills through CTF challenges like Hack The Box's University CTF 2024 and
the national-level Cyber Strike Competition 1.0. I'm fascinated by ethical hacking and vulnerability
assessment, and I am committed to becoming a cybersecurity analyst who can proactively identify and
remediate threats.

In the long term, I aim to attain industry certifications such as OSCP and contribute to Indonesia's
digital safety by working on advanced penetration-testing teams.`,
			Education: InfoCard{
				Title: "Education",
				Lines: []string{
					"University of North Sumatera",
					"Computer Science (5th Semester)",
					"Focus: Web Programming & Cybersecurity",
				},
			},
			CareerGoals: InfoCard{
				Title: "Career Goals",
				Lines: []string{
					"Aspiring Cybersecurity Analyst",
					"Target: OSCP Certification",
					"Vision: Contributing to Indonesia's digital safety",
				},
			},
		},
		Projects: []Project{
			{
				Title:        "Movie Rating Application",
				Description:  "A full-stack web application where users can browse films by genre, submit ratings and reviews in each movie section.",
				Technologies: []string{"HTML", "CSS", "JavaScript", "PHP", "Supabase", "PostgreSQL"},
				GitHub:       "https://github.com/susanjong/PROJEK-BUAT-WEB-FULLSTACK.git",
				Highlights: []string{
					"Backend endpoints in PHP for CRUD operations",
					"Database schema design in Supabase",
					"User authentication and review system",
				},
			},
			{
				Title:        "POS Application",
				Description:  "A desktop Point of Sale system built in JavaFX, featuring inventory management, item lookup, cart operations, and multi-level access control.",
				Technologies: []string{"Java", "JavaFX", "FXML", "PostgreSQL"},
				GitHub:       "https://github.com/susanjong/UTS_PBO_KELOMPOK5.git",
				Highlights: []string{
					"Overall architecture design",
					"Multi-level access control (Admin/User)",
					"Inventory management and receipt printing",
				},
			},
			{
				Title:        "Personality Type Prediction",
				Description:  "A machine learning pipeline that predicts personality types from survey data, including data exploration, preprocessing, model training, and evaluation.",
				Technologies: []string{"Python", "Google Colab", "pandas", "scikit-learn", "SHAP", "matplotlib"},
				GitHub:       "https://colab.research.google.com/drive/1MRuP9flZkeyqKumGgcaH1NZr8ZPXWfm7?usp=sharing",
				Highlights: []string{
					"Multiple ML models comparison",
					"SHAP for model interpretation",
					"Comprehensive data analysis and visualization",
				},
			},
		},
		Skills: []SkillCategory{
			{Category: "Programming Languages", Items: []string{"PHP", "JavaScript", "Java", "Python"}, Icon: "code"},
			{Category: "Cybersecurity", Items: []string{"Ethical Hacking", "CTF Challenges", "Vulnerability Assessment", "Penetration Testing"}, Icon: "shield"},
			{Category: "Databases", Items: []string{"PostgreSQL", "Supabase", "Neon"}, Icon: "database"},
			{Category: "Frameworks & Tools", Items: []string{"JavaFX", "React", "Google Colab"}, Icon: "user"},
		},
		Certifications: []Certification{
			{
				Title:       "University CTF 2024: Binary Badlands",
				Institution: "Hack The Box",
				Date:        "December 2024",
				Achievement: "Team rank: 588/1128, solved 6/49 challenges",
			},
			{
				Title:       "Cyber Strike Competition 1.0",
				Institution: "Satuan Siber TNI (Indonesian National Cyber Unit)",
				Date:        "October 2024",
				Achievement: "National-level Jeopardy style CTF participant",
			},
			{
				Title:       "Web Development Pathway",
				Institution: "Google Developer Groups on Campus USU",
				Date:        "May 2025",
				Achievement: "Certificate of Completion",
			},
		},
		Contact: Contact{
			Description: "I'm always open to discussing cybersecurity, web development, or potential collaboration opportunities.",
			Links: []Link{
				{Label: "GitHub", URL: "https://github.com/FathurrahmanNasution", Kind: "github"},
			},
		},
		Footer: "© 2025 Fathurrahman Nasution. Built with Go and HTMX.",
	}
}
