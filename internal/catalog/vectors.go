// internal/catalog/vectors.go
// Per-service attack vector tables. Commands carry {target} and {port}
// placeholders; this package never executes anything.

package catalog

import "github.com/surfscan/surfscan/internal/models"

var (
	toolNmap = models.ToolRequirement{
		Name: "nmap", Kind: models.ToolRequired,
		Description: "Network scanner with NSE script engine",
	}
	toolHydra = models.ToolRequirement{
		Name: "hydra", Kind: models.ToolRequired,
		Description: "Parallelized network login cracker",
	}
	toolMetasploit = models.ToolRequirement{
		Name: "msfconsole", Kind: models.ToolOptional,
		Description: "Metasploit framework console",
	}
	toolNetcat = models.ToolRequirement{
		Name: "nc", Kind: models.ToolBuiltin,
		Description: "Raw TCP/UDP client",
	}
	toolWireshark = models.ToolRequirement{
		Name: "wireshark", Kind: models.ToolGUI,
		Description: "Packet capture and protocol analysis",
	}
)

// genericVectors is assigned to open ports absent from the service table.
var genericVectors = []models.AttackVector{
	{
		Name:        "Service Enumeration / Banner Grabbing",
		Description: "Identify the listening service and its version from its greeting banner.",
		Severity:    models.RiskInfo,
		Tools:       []models.ToolRequirement{toolNetcat, toolNmap},
		Commands: []string{
			"nc -nv {target} {port}",
			"nmap -sV -p {port} {target}",
		},
		References: []string{"MITRE ATT&CK T1046"},
	},
}

var services = map[int]entry{
	21: {
		risk: models.RiskHigh,
		vectors: []models.AttackVector{
			{
				Name:        "FTP Anonymous Login",
				Description: "Check whether the server accepts the anonymous account, exposing the filesystem without credentials.",
				Severity:    models.RiskHigh,
				Tools:       []models.ToolRequirement{toolNmap, toolNetcat},
				Commands: []string{
					"nmap --script ftp-anon -p {port} {target}",
				},
				References: []string{"MITRE ATT&CK T1078.001"},
			},
			{
				Name:        "FTP Brute Force",
				Description: "Dictionary attack against FTP credentials.",
				Severity:    models.RiskMedium,
				Tools:       []models.ToolRequirement{toolHydra},
				Commands: []string{
					"hydra -L users.txt -P passwords.txt ftp://{target}:{port}",
				},
				References: []string{"MITRE ATT&CK T1110.001"},
			},
		},
	},
	22: {
		risk: models.RiskHigh,
		vectors: []models.AttackVector{
			{
				Name:        "SSH Brute Force",
				Description: "Dictionary attack against SSH credentials.",
				Severity:    models.RiskHigh,
				Tools:       []models.ToolRequirement{toolHydra, toolMetasploit},
				Commands: []string{
					"hydra -L users.txt -P passwords.txt ssh://{target}:{port} -t 4",
				},
				References: []string{"MITRE ATT&CK T1110.001"},
			},
			{
				Name:        "SSH Algorithm and Version Audit",
				Description: "Enumerate supported key exchange and cipher algorithms for deprecated options.",
				Severity:    models.RiskLow,
				Tools:       []models.ToolRequirement{toolNmap},
				Commands: []string{
					"nmap --script ssh2-enum-algos,ssh-auth-methods -p {port} {target}",
				},
				References: []string{"MITRE ATT&CK T1046"},
			},
		},
	},
	23: {
		risk: models.RiskCritical,
		vectors: []models.AttackVector{
			{
				Name:        "Telnet Cleartext Credential Capture",
				Description: "Telnet transmits credentials unencrypted; any on-path observer recovers them.",
				Severity:    models.RiskCritical,
				Tools:       []models.ToolRequirement{toolWireshark},
				Commands: []string{
					"tshark -i any -f 'tcp port {port} and host {target}' -Y telnet",
				},
				References: []string{"MITRE ATT&CK T1040"},
			},
			{
				Name:        "Telnet Brute Force",
				Description: "Dictionary attack against the Telnet login prompt.",
				Severity:    models.RiskHigh,
				Tools:       []models.ToolRequirement{toolHydra},
				Commands: []string{
					"hydra -L users.txt -P passwords.txt telnet://{target}:{port}",
				},
				References: []string{"MITRE ATT&CK T1110"},
			},
		},
	},
	25: {
		risk: models.RiskMedium,
		vectors: []models.AttackVector{
			{
				Name:        "SMTP User Enumeration",
				Description: "Enumerate valid mailbox users via VRFY/EXPN/RCPT probing.",
				Severity:    models.RiskMedium,
				Tools:       []models.ToolRequirement{toolNmap, toolNetcat},
				Commands: []string{
					"nmap --script smtp-enum-users -p {port} {target}",
				},
				References: []string{"MITRE ATT&CK T1087"},
			},
			{
				Name:        "Open Relay Test",
				Description: "Check whether the server relays mail for arbitrary senders.",
				Severity:    models.RiskMedium,
				Tools:       []models.ToolRequirement{toolNmap},
				Commands: []string{
					"nmap --script smtp-open-relay -p {port} {target}",
				},
				References: []string{"MITRE ATT&CK T1071.003"},
			},
		},
	},
	53: {
		risk: models.RiskMedium,
		vectors: []models.AttackVector{
			{
				Name:        "DNS Zone Transfer",
				Description: "Request a full zone transfer (AXFR) to map the target's internal namespace.",
				Severity:    models.RiskMedium,
				Tools: []models.ToolRequirement{
					{Name: "dig", Kind: models.ToolBuiltin, Description: "DNS lookup utility"},
				},
				Commands: []string{
					"dig axfr @{target} example.com",
				},
				References: []string{"MITRE ATT&CK T1590.002"},
			},
			{
				Name:        "DNS Recursion Check",
				Description: "Open recursive resolvers can be abused for amplification.",
				Severity:    models.RiskLow,
				Tools:       []models.ToolRequirement{toolNmap},
				Commands: []string{
					"nmap -sU --script dns-recursion -p {port} {target}",
				},
				References: []string{"MITRE ATT&CK T1498.002"},
			},
		},
	},
	80:   webEntry,
	443:  webEntry,
	8080: webEntry,
	8443: webEntry,
	110:  mailboxEntry,
	995:  mailboxEntry,
	143:  mailboxEntry,
	993:  mailboxEntry,
	139:  smbEntry,
	445:  smbEntry,
	389:  ldapEntry,
	636:  ldapEntry,
	1433: {
		risk: models.RiskHigh,
		vectors: []models.AttackVector{
			{
				Name:        "MSSQL Brute Force",
				Description: "Dictionary attack against the sa account and other SQL logins.",
				Severity:    models.RiskHigh,
				Tools:       []models.ToolRequirement{toolHydra, toolNmap},
				Commands: []string{
					"hydra -l sa -P passwords.txt mssql://{target}:{port}",
					"nmap --script ms-sql-brute -p {port} {target}",
				},
				References: []string{"MITRE ATT&CK T1110"},
			},
			{
				Name:        "xp_cmdshell Command Execution",
				Description: "With sysadmin credentials, xp_cmdshell yields OS command execution.",
				Severity:    models.RiskCritical,
				Tools:       []models.ToolRequirement{toolMetasploit},
				Commands: []string{
					"nmap --script ms-sql-xp-cmdshell --script-args mssql.username=sa -p {port} {target}",
				},
				References: []string{"MITRE ATT&CK T1059.003"},
			},
		},
	},
	3306: {
		risk: models.RiskHigh,
		vectors: []models.AttackVector{
			{
				Name:        "MySQL Brute Force",
				Description: "Dictionary attack against MySQL accounts, root in particular.",
				Severity:    models.RiskHigh,
				Tools:       []models.ToolRequirement{toolHydra},
				Commands: []string{
					"hydra -l root -P passwords.txt mysql://{target}:{port}",
				},
				References: []string{"MITRE ATT&CK T1110"},
			},
			{
				Name:        "MySQL Enumeration",
				Description: "Enumerate version, users, and databases when access is obtained.",
				Severity:    models.RiskMedium,
				Tools:       []models.ToolRequirement{toolNmap},
				Commands: []string{
					"nmap --script mysql-info,mysql-enum -p {port} {target}",
				},
				References: []string{"MITRE ATT&CK T1046"},
			},
		},
	},
	5432: {
		risk: models.RiskHigh,
		vectors: []models.AttackVector{
			{
				Name:        "PostgreSQL Brute Force",
				Description: "Dictionary attack against the postgres superuser.",
				Severity:    models.RiskHigh,
				Tools:       []models.ToolRequirement{toolHydra},
				Commands: []string{
					"hydra -l postgres -P passwords.txt postgres://{target}:{port}",
				},
				References: []string{"MITRE ATT&CK T1110"},
			},
		},
	},
	6379: {
		risk: models.RiskCritical,
		vectors: []models.AttackVector{
			{
				Name:        "Unauthenticated Redis Access",
				Description: "Redis ships without authentication; an exposed instance allows full data access and config rewrite.",
				Severity:    models.RiskCritical,
				Tools: []models.ToolRequirement{
					{Name: "redis-cli", Kind: models.ToolRequired, Description: "Redis command-line client"},
				},
				Commands: []string{
					"redis-cli -h {target} -p {port} INFO",
					"redis-cli -h {target} -p {port} CONFIG GET dir",
				},
				References: []string{"MITRE ATT&CK T1190"},
			},
			{
				Name:        "Redis Persistence Abuse",
				Description: "CONFIG SET dir plus SAVE writes attacker-controlled files (cron, authorized_keys, webshells).",
				Severity:    models.RiskCritical,
				Tools: []models.ToolRequirement{
					{Name: "redis-cli", Kind: models.ToolRequired, Description: "Redis command-line client"},
				},
				Commands: []string{
					"redis-cli -h {target} -p {port} CONFIG SET dir /var/spool/cron",
				},
				References: []string{"MITRE ATT&CK T1053.003"},
			},
		},
	},
	27017: {
		risk: models.RiskCritical,
		vectors: []models.AttackVector{
			{
				Name:        "Unauthenticated MongoDB Access",
				Description: "MongoDB without access control exposes every database for read and write.",
				Severity:    models.RiskCritical,
				Tools: []models.ToolRequirement{
					{Name: "mongosh", Kind: models.ToolRequired, Description: "MongoDB shell"},
				},
				Commands: []string{
					"mongosh --host {target} --port {port} --eval 'db.adminCommand({listDatabases:1})'",
				},
				References: []string{"MITRE ATT&CK T1190"},
			},
		},
	},
	3389: {
		risk: models.RiskCritical,
		vectors: []models.AttackVector{
			{
				Name:        "BlueKeep (CVE-2019-0708) Check",
				Description: "Pre-auth RCE in legacy RDP stacks; a vulnerable host is fully compromisable.",
				Severity:    models.RiskCritical,
				Tools:       []models.ToolRequirement{toolMetasploit, toolNmap},
				Commands: []string{
					"nmap --script rdp-vuln-ms12-020 -p {port} {target}",
					"use auxiliary/scanner/rdp/cve_2019_0708_bluekeep",
				},
				References: []string{"CVE-2019-0708", "MITRE ATT&CK T1210"},
			},
			{
				Name:        "RDP Brute Force",
				Description: "Dictionary attack against RDP logins.",
				Severity:    models.RiskHigh,
				Tools:       []models.ToolRequirement{toolHydra},
				Commands: []string{
					"hydra -L users.txt -P passwords.txt rdp://{target}:{port}",
				},
				References: []string{"MITRE ATT&CK T1110"},
			},
		},
	},
	5900: {
		risk: models.RiskHigh,
		vectors: []models.AttackVector{
			{
				Name:        "VNC Authentication Check",
				Description: "Detect VNC servers configured with no or weak authentication.",
				Severity:    models.RiskHigh,
				Tools:       []models.ToolRequirement{toolNmap},
				Commands: []string{
					"nmap --script vnc-info,realvnc-auth-bypass -p {port} {target}",
				},
				References: []string{"MITRE ATT&CK T1021.005"},
			},
			{
				Name:        "VNC Brute Force",
				Description: "Dictionary attack against the VNC password.",
				Severity:    models.RiskMedium,
				Tools:       []models.ToolRequirement{toolHydra},
				Commands: []string{
					"hydra -P passwords.txt vnc://{target}:{port}",
				},
				References: []string{"MITRE ATT&CK T1110"},
			},
		},
	},
}

// Shared entries for ports that expose the same service family.

var webEntry = entry{
	risk: models.RiskMedium,
	vectors: []models.AttackVector{
		{
			Name:        "Web Directory Enumeration",
			Description: "Brute-force paths to uncover admin panels, backups, and forgotten endpoints.",
			Severity:    models.RiskMedium,
			Tools: []models.ToolRequirement{
				{Name: "gobuster", Kind: models.ToolRequired, Description: "Directory and DNS brute-forcer"},
			},
			Commands: []string{
				"gobuster dir -u http://{target}:{port}/ -w wordlist.txt",
			},
			References: []string{"MITRE ATT&CK T1083"},
		},
		{
			Name:        "Web Vulnerability Scan",
			Description: "Scan for common misconfigurations, dangerous files, and outdated components.",
			Severity:    models.RiskMedium,
			Tools: []models.ToolRequirement{
				{Name: "nikto", Kind: models.ToolRequired, Description: "Web server scanner"},
			},
			Commands: []string{
				"nikto -h {target} -p {port}",
			},
			References: []string{"MITRE ATT&CK T1595.002"},
		},
	},
}

var mailboxEntry = entry{
	risk: models.RiskLow,
	vectors: []models.AttackVector{
		{
			Name:        "Mail Credential Brute Force",
			Description: "Dictionary attack against POP3/IMAP mailbox credentials.",
			Severity:    models.RiskMedium,
			Tools:       []models.ToolRequirement{toolHydra},
			Commands: []string{
				"hydra -L users.txt -P passwords.txt -s {port} {target} pop3",
			},
			References: []string{"MITRE ATT&CK T1110.003"},
		},
	},
}

var smbEntry = entry{
	risk: models.RiskCritical,
	vectors: []models.AttackVector{
		{
			Name:        "SMB Share Enumeration",
			Description: "List shares and test for null-session access.",
			Severity:    models.RiskHigh,
			Tools: []models.ToolRequirement{
				{Name: "smbclient", Kind: models.ToolRequired, Description: "SMB client from Samba"},
				{Name: "enum4linux", Kind: models.ToolOptional, Description: "Windows/Samba enumeration"},
			},
			Commands: []string{
				"smbclient -L //{target} -N",
				"enum4linux -a {target}",
			},
			References: []string{"MITRE ATT&CK T1135"},
		},
		{
			Name:        "EternalBlue (MS17-010) Check",
			Description: "Unauthenticated SMBv1 RCE; an unpatched host is fully compromisable.",
			Severity:    models.RiskCritical,
			Tools:       []models.ToolRequirement{toolNmap, toolMetasploit},
			Commands: []string{
				"nmap --script smb-vuln-ms17-010 -p {port} {target}",
				"use auxiliary/scanner/smb/smb_ms17_010",
			},
			References: []string{"CVE-2017-0144", "MITRE ATT&CK T1210"},
		},
	},
}

var ldapEntry = entry{
	risk: models.RiskHigh,
	vectors: []models.AttackVector{
		{
			Name:        "Anonymous LDAP Bind",
			Description: "Anonymous binds expose the directory tree, users, and group structure.",
			Severity:    models.RiskHigh,
			Tools: []models.ToolRequirement{
				{Name: "ldapsearch", Kind: models.ToolRequired, Description: "OpenLDAP search client"},
			},
			Commands: []string{
				"ldapsearch -x -H ldap://{target}:{port} -s base namingcontexts",
			},
			References: []string{"MITRE ATT&CK T1087.002"},
		},
		{
			Name:        "LDAP Enumeration",
			Description: "Enumerate directory objects reachable with the obtained bind.",
			Severity:    models.RiskMedium,
			Tools:       []models.ToolRequirement{toolNmap},
			Commands: []string{
				"nmap --script ldap-rootdse,ldap-search -p {port} {target}",
			},
			References: []string{"MITRE ATT&CK T1046"},
		},
	},
}
