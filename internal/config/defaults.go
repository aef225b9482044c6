package config

import "github.com/jobsift/jobsift/internal/models"

// Default returns the built-in configuration. It is what Init writes and
// what a run uses when no config file exists; every field can be
// overridden from the file.
func Default() Config {
	return Config{
		Incremental: IncrementalConfig{
			Enabled:             true,
			StateDirectory:      "state",
			StructureStateFile:  "processed_message_ids.txt",
			PrioritizeStateFile: "prioritized_job_ids.txt",
			CheckpointInterval:  50,
			ForceFullReprocess:  false,
		},
		InputOutput: InputOutputConfig{
			EmailsInput:     "placement_emails.csv",
			StructuredCSV:   "structured_job_postings.csv",
			StructuredJSON:  "structured_job_postings.json",
			PrioritizedCSV:  "prioritized_jobs.csv",
			PrioritizedJSON: "prioritized_jobs.json",
			TopN:            20,
		},
		Processing: ProcessingConfig{
			MaxJobsPerEmail:      5,
			MaxCompaniesPerEmail: 3,
			MaxPositionsPerEmail: 3,
			MinCompletenessScore: 0.3,
		},
		Normalization: NormalizationConfig{
			SkillMap: map[string]string{
				"js":      "javascript",
				"ts":      "typescript",
				"py":      "python",
				"reactjs": "react",
				"nodejs":  "node.js",
				"ml":      "machine learning",
				"ai":      "artificial intelligence",
				"dl":      "deep learning",
				"nlp":     "natural language processing",
				"k8s":     "kubernetes",
				"tf":      "tensorflow",
				"scikit":  "scikit-learn",
			},
			DegreeMap: map[string]string{
				"btech":  "B.Tech",
				"b.tech": "B.Tech",
				"be":     "B.E",
				"b.e":    "B.E",
				"mtech":  "M.Tech",
				"m.tech": "M.Tech",
				"me":     "M.E",
				"m.e":    "M.E",
				"bca":    "BCA",
				"mca":    "MCA",
				"bsc":    "B.Sc",
				"b.sc":   "B.Sc",
				"msc":    "M.Sc",
				"m.sc":   "M.Sc",
			},
			CityMap: map[string]string{
				"bangalore": "Bangalore",
				"bengaluru": "Bangalore",
				"blr":       "Bangalore",
				"mumbai":    "Mumbai",
				"bombay":    "Mumbai",
				"delhi":     "Delhi",
				"new delhi": "Delhi",
				"ncr":       "Delhi NCR",
				"gurgaon":   "Gurgaon",
				"gurugram":  "Gurgaon",
				"hyderabad": "Hyderabad",
				"pune":      "Pune",
				"chennai":   "Chennai",
				"kolkata":   "Kolkata",
				"calcutta":  "Kolkata",
				"noida":     "Noida",
			},
			CityStates: map[string]string{
				"Bangalore": "Karnataka",
				"Mumbai":    "Maharashtra",
				"Pune":      "Maharashtra",
				"Delhi":     "Delhi",
				"Delhi NCR": "Delhi",
				"Gurgaon":   "Haryana",
				"Noida":     "Uttar Pradesh",
				"Hyderabad": "Telangana",
				"Chennai":   "Tamil Nadu",
				"Kolkata":   "West Bengal",
			},
			CompanySuffixes: []string{
				"PVT LTD", "PVT. LTD.", "PRIVATE LIMITED", "LIMITED",
				"LTD", "INC", "CORP", "CORPORATION", "LLC",
			},
		},
		Vocabularies: VocabularyConfig{
			Skills: []string{
				"python", "java", "javascript", "typescript", "golang", "c++",
				"c#", "sql", "react", "angular", "node.js", "django", "flask",
				"spring", "aws", "azure", "gcp", "docker", "kubernetes",
				"terraform", "mongodb", "postgresql", "mysql", "redis",
				"machine learning", "deep learning", "data science",
				"natural language processing", "computer vision", "tensorflow",
				"pytorch", "scikit-learn", "pandas", "numpy", "excel", "tableau",
				"power bi", "git", "linux", "html", "css",
			},
			Positions: []string{
				"software engineer", "software developer", "backend developer",
				"frontend developer", "full stack developer", "data scientist",
				"data analyst", "data engineer", "machine learning engineer",
				"devops engineer", "qa engineer", "test engineer",
				"business analyst", "product manager", "sde", "intern",
				"graduate engineer trainee", "system engineer", "web developer",
				"android developer", "ios developer", "cloud engineer",
			},
			Companies: []string{
				"google", "microsoft", "amazon", "meta", "apple", "netflix",
				"infosys", "tcs", "wipro", "accenture", "cognizant", "hcl",
				"tech mahindra", "capgemini", "deloitte", "ibm", "oracle",
				"adobe", "flipkart", "zomato", "swiggy", "paytm", "razorpay",
				"phonepe", "cred", "meesho", "ola", "uber", "salesforce",
			},
			Locations: []string{
				"bangalore", "bengaluru", "mumbai", "delhi", "new delhi",
				"gurgaon", "gurugram", "noida", "hyderabad", "pune", "chennai",
				"kolkata",
			},
			Degrees: []string{
				"b.tech", "btech", "b.e", "be", "m.tech", "mtech", "m.e",
				"bca", "mca", "b.sc", "bsc", "m.sc", "msc", "mba", "phd",
			},
		},
		PositionLevels: PositionLevelConfig{
			SeniorKeywords:  []string{"senior", "sr.", "principal", "staff"},
			JuniorKeywords:  []string{"junior", "jr.", "associate", "entry"},
			InternKeywords:  []string{"intern", "trainee"},
			ManagerKeywords: []string{"lead", "manager", "head", "director"},
		},
		WorkModeKeywords: WorkModeConfig{
			Remote: []string{"remote", "wfh", "work from home", "anywhere"},
			Hybrid: []string{"hybrid"},
			Onsite: []string{"onsite", "on-site", "work from office", "in office"},
		},
		ExperienceTypes: ExperienceTypesConfig{
			FresherKeywords: []string{"fresher", "freshers", "entry level"},
			Thresholds: ExperienceThresholds{
				EntryLevelMax: 2,
				MidLevelMax:   5,
			},
		},
		SalaryParsing: SalaryParsingConfig{
			Patterns: []Pattern{
				{
					Name:       "lpa_range",
					Pattern:    `(\d+(?:\.\d+)?)\s*(?:-|to)\s*(\d+(?:\.\d+)?)\s*(?:lpa|lakhs?\s+per\s+annum)`,
					Confidence: 0.9,
				},
				{
					Name:       "lpa_single",
					Pattern:    `(\d+(?:\.\d+)?)\s*(?:lpa|lakhs?\s+per\s+annum)`,
					Confidence: 0.85,
				},
				{
					Name:       "monthly",
					Pattern:    `(\d+(?:\.\d+)?)\s*(k?)\s*(?:per\s+month|pm\b|/month)`,
					Confidence: 0.8,
				},
				{
					Name:       "ctc",
					Pattern:    `ctc\s*:?\s*(\d+(?:\.\d+)?)\s*(?:lpa|lakhs?)`,
					Confidence: 0.85,
				},
				{
					Name:       "package_range",
					Pattern:    `package\s*:?\s*(\d+(?:\.\d+)?)\s*(?:-|to)\s*(\d+(?:\.\d+)?)\s*lakhs?`,
					Confidence: 0.85,
				},
			},
			DefaultCurrency: "INR",
			DefaultPeriod:   models.PeriodAnnual,
		},
		ExperienceParsing: ExperienceParsingConfig{
			Patterns: []Pattern{
				{
					Name:       "range_years",
					Pattern:    `(\d+)\s*(?:-|to)\s*(\d+)\s*(?:\+\s*)?years?`,
					Confidence: 0.9,
				},
				{
					Name:       "min_years",
					Pattern:    `(\d+)\s*\+?\s*years?\s+(?:of\s+)?experience`,
					Confidence: 0.8,
				},
			},
		},
		DeadlineParsing: DeadlineParsingConfig{
			DatePatterns: []DatePattern{
				{Pattern: `(\d{4})[-/](\d{1,2})[-/](\d{1,2})`, Layout: "2006-1-2"},
				{Pattern: `(\d{1,2})[-/](\d{1,2})[-/](\d{4})`, Layout: "2-1-2006"},
				{Pattern: `(\d{1,2})[-/](\d{1,2})[-/](\d{2})`, Layout: "2-1-06"},
			},
			RelativeKeywords: map[string]int{
				"apply today":    0,
				"apply tomorrow": 1,
			},
		},
		Completeness: CompletenessConfig{
			RequiredFields:  []string{"company", "position", "skills"},
			ImportantFields: []string{"location", "salary", "experience", "education", "deadline"},
		},
		ScoringWeights: models.ScoringWeights{
			"skills_match":          0.30,
			"location_match":        0.15,
			"salary_attractiveness": 0.15,
			"company_reputation":    0.10,
			"work_mode_preference":  0.10,
			"deadline_urgency":      0.10,
			"experience_fit":        0.05,
			"completeness":          0.05,
		},
		UserProfile: models.UserProfile{
			Skills:             []string{"python", "sql", "machine learning", "data science", "pandas"},
			MustHaveSkills:     []string{"python"},
			Degree:             "B.Tech",
			ExperienceYears:    0,
			PreferredLocations: []string{"Bangalore", "Hyderabad"},
			PreferredWorkModes: []string{models.WorkModeRemote, models.WorkModeHybrid},
		},
		CompanyReputation: ReputationConfig{
			TierScores: map[string]float64{
				"faang":   1.0,
				"unicorn": 0.95,
				"mnc":     0.85,
				"product": 0.80,
				"startup": 0.75,
				"service": 0.65,
				"unknown": 0.50,
			},
			FAANGCompanies:   []string{"google", "microsoft", "amazon", "meta", "apple", "netflix"},
			UnicornCompanies: []string{"flipkart", "razorpay", "cred", "meesho", "phonepe", "swiggy", "zomato"},
			MNCCompanies:     []string{"ibm", "oracle", "adobe", "salesforce", "deloitte", "accenture"},
			ProductCompanies: []string{"paytm", "ola", "uber"},
			StartupCompanies: []string{},
			ServiceCompanies: []string{"tcs", "infosys", "wipro", "cognizant", "hcl", "tech mahindra", "capgemini"},
		},
		LocationScoring: LocationScoringConfig{
			Tier1Cities: []string{"Bangalore", "Mumbai", "Delhi", "Delhi NCR", "Hyderabad"},
			Tier2Cities: []string{"Pune", "Chennai", "Gurgaon", "Noida", "Kolkata"},
		},
		SalaryScoring: SalaryScoringConfig{
			MinAcceptableLPA:   3.0,
			IdealSalaryLPA:     8.0,
			AboveIdealBonus:    0.2,
			MissingSalaryScore: 0.5,
		},
	}
}
