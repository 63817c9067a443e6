package model

import "time"

// Config is the complete Concord configuration. Loadable from YAML
// (~/.concord/config.yaml), overridable by CONCORD_* env vars and flags.
type Config struct {
	HTTP        HTTPConfig               `yaml:"http" json:"http"`
	Cache       CacheConfig              `yaml:"cache" json:"cache"`
	Concurrency ConcurrencyConfig        `yaml:"concurrency" json:"concurrency"`
	RateLimit   RateLimitConfig          `yaml:"rate_limit" json:"rate_limit"`
	Thresholds  Thresholds               `yaml:"thresholds" json:"thresholds"`
	Sources     SourcesConfig            `yaml:"sources" json:"sources"`
	Experts     ExpertRulesConfig        `yaml:"experts" json:"experts"`
	Domains     map[string]DomainProfile `yaml:"domains" json:"domains"`
	LLM         LLMConfig                `yaml:"llm" json:"llm"`
	Budget      BudgetConfig             `yaml:"budget" json:"budget"`
	Output      OutputConfig             `yaml:"output" json:"output"`
}

// HTTPConfig controls article and evidence fetching.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" json:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy,omitempty" json:"no_proxy,omitempty"`
}

// CacheConfig controls the layered evidence cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// ConcurrencyConfig bounds parallel work.
type ConcurrencyConfig struct {
	ClaimWorkers  int `yaml:"claim_workers" json:"claim_workers"`   // Concurrent claim evaluations per batch
	SearchWorkers int `yaml:"search_workers" json:"search_workers"` // Concurrent evidence fetches per claim
}

// RateLimitConfig bounds outbound request rates per domain.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" json:"burst_size"`
}

// Thresholds is the consensus policy. Injectable rather than hidden so the
// determiner stays testable against alternative policies.
type Thresholds struct {
	StrongConsensusRatio   float64 `yaml:"strong_consensus_ratio" json:"strong_consensus_ratio"`
	ModerateConsensusRatio float64 `yaml:"moderate_consensus_ratio" json:"moderate_consensus_ratio"`
	MinimumQualityStudies  int     `yaml:"minimum_quality_studies" json:"minimum_quality_studies"`
	EmergingResearchYears  int     `yaml:"emerging_research_years" json:"emerging_research_years"`
}

// DefaultThresholds returns the standard consensus policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StrongConsensusRatio:   0.90,
		ModerateConsensusRatio: 0.70,
		MinimumQualityStudies:  3,
		EmergingResearchYears:  3,
	}
}

// SourcesConfig holds the curated evidence-source allow-lists, in tier
// order. DomainMap allows explicit per-host overrides ("host" -> "1".."3").
type SourcesConfig struct {
	Tier1Domains []string          `yaml:"tier1_domains" json:"tier1_domains"` // Synthesis publishers
	Tier2Domains []string          `yaml:"tier2_domains" json:"tier2_domains"` // Peer-reviewed venues
	Tier3Domains []string          `yaml:"tier3_domains" json:"tier3_domains"` // Preprints, working papers, government stats
	DomainMap    map[string]string `yaml:"domain_map,omitempty" json:"domain_map,omitempty"`
}

// ExpertRulesConfig holds the data-driven disqualification and
// qualification patterns so rule coverage can be extended without touching
// control flow.
type ExpertRulesConfig struct {
	PoliticianPatterns    []string `yaml:"politician_patterns" json:"politician_patterns"`
	LobbyistPatterns      []string `yaml:"lobbyist_patterns" json:"lobbyist_patterns"`
	AdvocatePatterns      []string `yaml:"advocate_patterns" json:"advocate_patterns"`
	SpokespersonPatterns  []string `yaml:"spokesperson_patterns" json:"spokesperson_patterns"`
	InstitutionPatterns   []string `yaml:"institution_patterns" json:"institution_patterns"`
	AcademicTitlePatterns []string `yaml:"academic_title_patterns" json:"academic_title_patterns"`
}

// DomainProfile is the external per-domain configuration: which credentials
// count as relevant and which caveats the domain always earns.
type DomainProfile struct {
	TypicalCredentials []string `yaml:"typical_credentials" json:"typical_credentials"`
	Caveats            []string `yaml:"caveats,omitempty" json:"caveats,omitempty"`
}

// LLMConfig configures the external claim-extraction collaborator.
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"-" json:"-"` // Env only, never persisted
	BaseURL   string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout" json:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
}

// BudgetConfig caps external-call spend per run.
type BudgetConfig struct {
	LimitUSD float64 `yaml:"limit_usd" json:"limit_usd"` // 0 = unlimited
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// DefaultConfig returns the full default configuration, including the
// curated source lists and domain profiles.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      2 * time.Minute,
			UserAgent:    "Concord/0.1 (+https://github.com/rmedved/concord)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // Resolved to ~/.concord/cache at startup
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			ClaimWorkers:  3,
			SearchWorkers: 10,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Thresholds: DefaultThresholds(),
		Sources: SourcesConfig{
			Tier1Domains: []string{
				"cochranelibrary.com",
				"cochrane.org",
				"ipcc.ch",
				"nationalacademies.org",
				"who.int",
				"annualreviews.org",
				"campbellcollaboration.org",
			},
			Tier2Domains: []string{
				"nature.com",
				"science.org",
				"thelancet.com",
				"nejm.org",
				"jamanetwork.com",
				"bmj.com",
				"pnas.org",
				"cell.com",
				"sciencedirect.com",
				"link.springer.com",
				"onlinelibrary.wiley.com",
				"journals.plos.org",
				"academic.oup.com",
				"doi.org",
				"pubmed.ncbi.nlm.nih.gov",
			},
			Tier3Domains: []string{
				"arxiv.org",
				"biorxiv.org",
				"medrxiv.org",
				"ssrn.com",
				"nber.org",
				"census.gov",
				"bls.gov",
				"cdc.gov",
				"data.worldbank.org",
				"ourworldindata.org",
				"eurostat.ec.europa.eu",
			},
		},
		Experts: ExpertRulesConfig{
			PoliticianPatterns: []string{
				`(?i)\bsenator\b`, `(?i)\bcongress(man|woman|person)?\b`,
				`(?i)\brepresentative\b`, `(?i)\bgovernor\b`, `(?i)\bpresident\b`,
				`(?i)\bvice president\b`, `(?i)\bminister\b`, `(?i)\bsecretary of\b`,
				`(?i)\bmayor\b`, `(?i)\bmember of parliament\b`, `(?i)\bmp\b`,
				`(?i)\bcouncil(man|woman|or)\b`, `(?i)\bstate legislator\b`,
				`(?i)\bwhite house\b`, `(?i)\bus senate\b`, `(?i)\bhouse of representatives\b`,
				`(?i)\bformer (senator|governor|president|congressman|congresswoman|minister|mayor)\b`,
			},
			LobbyistPatterns: []string{
				`(?i)\blobby(ist|ing)\b`, `(?i)\bgovernment (affairs|relations)\b`,
				`(?i)\bpublic affairs\b`, `(?i)\btrade (association|group)\b`,
			},
			AdvocatePatterns: []string{
				`(?i)\badvoca(te|cy)\b`, `(?i)\bactivist\b`, `(?i)\bcampaign(er)?\b`,
				`(?i)\bcoalition\b`, `(?i)\baction (fund|network)\b`,
				`(?i)\bcitizens for\b`, `(?i)\balliance for\b`,
			},
			SpokespersonPatterns: []string{
				`(?i)\bchief executive\b`, `(?i)\bceo\b`, `(?i)\bcfo\b`, `(?i)\bcoo\b`,
				`(?i)\bcto\b`, `(?i)\bchief \w+ officer\b`, `(?i)\bspokes(person|man|woman)\b`,
				`(?i)\bpress secretary\b`, `(?i)\b(pr|communications) (director|manager|lead)\b`,
				`(?i)\bhead of (marketing|sales|communications)\b`,
				`(?i)\bvp of (marketing|sales)\b`, `(?i)\binvestor relations\b`,
			},
			InstitutionPatterns: []string{
				`(?i)\buniversity\b`, `(?i)\bcollege\b`, `(?i)\binstitute of technology\b`,
				`(?i)\bpolytechnic\b`, `(?i)\bresearch (center|centre|institute)\b`,
				`(?i)\blaborator(y|ies)\b`, `(?i)\bmedical school\b`,
				`(?i)\bschool of medicine\b`, `(?i)\bnational academ(y|ies)\b`,
				`(?i)\bnational laboratory\b`, `(?i)\bmax planck\b`, `(?i)\bcnrs\b`,
			},
			AcademicTitlePatterns: []string{
				`(?i)\bprofessor\b`, `(?i)\bprof\.`, `(?i)\bresearch (fellow|scientist)\b`,
				`(?i)\bpostdoc(toral)?\b`, `(?i)\blecturer\b`, `(?i)\breader in\b`,
				`(?i)\bdepartment (chair|head)\b`, `(?i)\blab director\b`,
				`(?i)\bprincipal investigator\b`, `(?i)\bsenior scientist\b`,
			},
		},
		Domains: map[string]DomainProfile{
			"medicine": {
				TypicalCredentials: []string{"md", "phd", "mph", "do", "mbbs", "pharmd", "rn"},
				Caveats: []string{
					"Medical findings can vary across populations; individual outcomes differ from study averages.",
				},
			},
			"nutrition": {
				TypicalCredentials: []string{"phd", "md", "rd", "mph"},
				Caveats: []string{
					"Nutrition research is prone to confounding and often relies on observational data.",
					"Industry funding is common in nutrition studies; check funding disclosures.",
				},
			},
			"psychology": {
				TypicalCredentials: []string{"phd", "psyd", "md"},
				Caveats: []string{
					"Psychology has faced replication challenges; single studies warrant extra caution.",
				},
			},
			"climate": {
				TypicalCredentials: []string{"phd"},
				Caveats: []string{
					"Climate projections carry scenario uncertainty even where the underlying physics is settled.",
				},
			},
			"economics": {
				TypicalCredentials: []string{"phd"},
				Caveats: []string{
					"Economic findings often depend on model assumptions and rarely replicate across countries and decades.",
				},
			},
			"general": {
				TypicalCredentials: []string{"phd", "md"},
			},
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 2000,
		},
		Budget: BudgetConfig{
			LimitUSD: 0,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
