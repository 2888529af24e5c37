// Package kb ships a starter corpus of domain registrar support
// documentation. In production the corpus comes from ingested files; the
// built-in set exists so the pipeline is usable out of the box and so
// the chat loop has something real to retrieve against.
package kb

import "knowledge/internal/domain"

// Documents returns the built-in support corpus.
func Documents() []domain.SourceDocument {
	return []domain.SourceDocument{
		{
			Title:    "Domain Suspension Guidelines - Suspension Reasons",
			Source:   "kb/policy-001",
			Category: "Domain Policies",
			Text: `A domain may be suspended for the following reasons. WHOIS verification failure: the registrant fails to verify their email within 15 days of registration or update. Invalid WHOIS information: providing false, inaccurate, or incomplete contact information. Non-payment: failure to pay renewal fees before the grace period expires. Policy violation: violation of the Acceptable Use Policy. Legal compliance: court orders, UDRP decisions, or law enforcement requests. Abuse reports: confirmed malware, phishing, or spam activities.

Domains suspended for WHOIS issues can be reactivated within 30 days by updating and verifying contact information. For policy violations, the domain holder must contact the Abuse Team for review.`,
		},
		{
			Title:    "Domain Suspension Guidelines - Reactivation Process",
			Source:   "kb/policy-002",
			Category: "Domain Policies",
			Text: `To reactivate a suspended domain, log in to your domain management portal, navigate to My Domains, and select the suspended domain. Click View Suspension Details to see the reason, then complete the required action. WHOIS issues: update contact information and click Resend Verification Email. Payment issues: process the outstanding payment in the Billing section. Policy violations: submit an appeal through the Abuse Team portal.

Reactivation timeline: WHOIS verification usually completes within 24-48 hours after verification. Payment reactivation is immediate upon successful payment processing. Abuse and policy reviews take 3-5 business days. Domains may be permanently deleted if not reactivated within 30 days of suspension.`,
		},
		{
			Title:    "Domain Suspension Notifications",
			Source:   "kb/policy-003",
			Category: "Domain Policies",
			Text: `Suspension notifications follow a fixed schedule. First warning: 7 days before potential suspension for WHOIS or payment issues. Final warning: 24 hours before suspension. Suspension notice: immediately upon suspension.

Notifications are sent to the primary registrant email on file, the admin contact email if different, and the emergency contact email if configured. If you did not receive notifications, check your spam folder, verify your email address is current in the domain settings, and add our notification domain to your safe sender list. To update notification preferences, navigate to Account Settings and then Notifications.`,
		},
		{
			Title:    "WHOIS Information Requirements",
			Source:   "kb/whois-001",
			Category: "WHOIS Information",
			Text: `ICANN requires accurate WHOIS information for all domain registrations. Required registrant information: full legal name, valid physical address (P.O. boxes not accepted as primary), working phone number, and a verified email address. Admin and technical contacts need a full name, phone number, and email address.

Email addresses must be verified within 15 days. Phone numbers may be validated via callback, and address verification may be required for high-risk domains. Invalid information leads to domain suspension within 15 days of failed verification, potential cancellation after 30 days, and loss of dispute resolution rights.`,
		},
		{
			Title:    "WHOIS Privacy Protection",
			Source:   "kb/whois-002",
			Category: "WHOIS Information",
			Text: `WHOIS privacy protection replaces your personal information in public WHOIS records with proxy contact information. It prevents spam and unwanted solicitation, reduces the risk of identity theft, and keeps your personal address out of public view. It does not protect against legitimate legal requests, may be unavailable for certain TLDs, and does not exempt you from providing accurate underlying information.

Privacy protection is included free with domain registration. To enable or disable it, log in to the domain management portal, select the domain, open WHOIS Settings, and toggle Privacy Protection. Disabling privacy may take 24-48 hours to reflect in public WHOIS.`,
		},
		{
			Title:    "Domain Renewal Policies",
			Source:   "kb/billing-001",
			Category: "Billing & Payments",
			Text: `Domains are set to auto-renew by default. Renewal is attempted 30 days before expiration; if payment fails, retries occur at 15 days and 7 days before expiration. Manual renewal can be done anytime from 1-10 years in advance under My Domains and Renew Domain.

Renewal pricing: standard renewals at the current market rate, a 5% discount for early renewal 60 or more days before expiration, and up to 15% discount for 5-year or longer terms. Accepted payment methods are credit and debit cards, PayPal, account credit balance, and wire transfer for orders over $1000.`,
		},
		{
			Title:    "Expired Domain Recovery and Grace Periods",
			Source:   "kb/billing-002",
			Category: "Billing & Payments",
			Text: `After domain expiration the following grace periods apply. Renewal grace period (0-30 days after expiration): the domain is inactive but can be renewed at the standard price; website and email stop working. Redemption period (31-60 days): the domain can only be recovered with a redemption fee of $80 plus the renewal fee, and you must contact support to initiate redemption. Pending delete (61-66 days): the domain cannot be recovered and will be released to public registration.

Premium domains may have different grace periods; check the domain status page for specific dates. To recover an expired domain, log in, go to Expired Domains, select the domain, and click Restore or Redeem.`,
		},
		{
			Title:    "Refund Policy",
			Source:   "kb/billing-003",
			Category: "Billing & Payments",
			Text: `New domain registrations are fully refundable within 5 days of registration; after 5 days no refund is available per ICANN policy. Renewals follow the same 5-day window. No refunds are given for transferred-in domains, premium or aftermarket domains, domains with active disputes, or domains flagged for abuse.

To request a refund, open a support ticket within the refund window, include the domain name and order number, and state the reason. Processing takes 5-7 business days for credit cards and 10-14 days for PayPal.`,
		},
		{
			Title:    "DNS Configuration Guide - Nameserver Setup",
			Source:   "kb/dns-001",
			Category: "DNS & Technical",
			Text: `The default nameservers are ns1.domainregistry.com and ns2.domainregistry.com. To use custom nameservers, go to My Domains, select the domain, open Nameservers, choose custom nameservers, and enter at least two hostnames. Changes typically propagate within 24-48 hours globally, though some ISPs cache old records longer.

Common issues: lame delegation means the nameservers do not respond, so verify NS records at your provider. A mismatch means NS records point to servers that do not serve your zone. Disable DNSSEC before changing nameservers. Always run at least two nameservers on different networks and keep old nameservers active for 48 hours after a switch.`,
		},
		{
			Title:    "DNS Record Management - Record Types",
			Source:   "kb/dns-002",
			Category: "DNS & Technical",
			Text: `An A record maps a domain to an IPv4 address, and an AAAA record maps to IPv6. A CNAME aliases one domain to another and cannot be used on the root domain; use an A record there. An MX record specifies mail servers and requires a priority value, where lower means higher priority. TXT records store text data such as SPF, DKIM, and domain verification strings.

TTL controls how long DNS records are cached. The default is 3600 seconds. A lower TTL means faster propagation at the cost of more DNS queries.`,
		},
		{
			Title:    "Domain Transfer Policy - Incoming Transfers",
			Source:   "kb/transfer-001",
			Category: "Transfer Policies",
			Text: `Requirements for transferring a domain to us: the domain must be unlocked at the current registrar, you need a valid authorization code (EPP or auth code), the domain must be older than 60 days, it must not be within 60 days of expiration, and the admin contact email must be accessible.

A standard transfer takes 5-7 days; some TLDs support a 24-hour fast transfer with an expedite fee. Standard TLD transfers add one year of registration to the domain. To initiate, go to Transfer Domain, enter the domain name and authorization code, complete payment, and confirm the transfer via email.`,
		},
		{
			Title:    "Domain Transfer Policy - Outgoing Transfers",
			Source:   "kb/transfer-002",
			Category: "Transfer Policies",
			Text: `To transfer your domain away, first ensure the domain is unlocked under Domain Settings and Lock Status, then obtain the authorization code under Get Auth Code. The auth code is emailed to the registrant email; provide it to the new registrar.

We do not charge for outgoing transfers. The domain must not be within 60 days of registration or a previous transfer. The transfer adds one year of registration, paid to the new registrar. Domains are locked by default to prevent unauthorized transfers; if you cannot unlock your domain, contact support with domain verification.`,
		},
		{
			Title:    "Abuse Policy - Acceptable Use",
			Source:   "kb/abuse-001",
			Category: "Security & Abuse",
			Text: `Prohibited activities include phishing, malware distribution, spam, copyright infringement, and any content violating applicable laws. Third parties can report abuse at abuse@domainregistry.com; reports are reviewed within 24 hours and the domain holder is notified with an opportunity to respond.

Enforcement escalates from a warning email for a minor first offense, to temporary suspension for repeated offenses, permanent suspension for severe violations, and domain termination for criminal activity. Appeals must be submitted within 14 days of the action with evidence that the violation was resolved, and are reviewed within 5 business days.`,
		},
		{
			Title:    "Domain Security Features",
			Source:   "kb/abuse-002",
			Category: "Security & Abuse",
			Text: `Registry Lock is the highest level of protection against unauthorized changes: all modifications require manual verification. It is recommended for high-value domains and costs $50 per year. DNSSEC protects against DNS spoofing and is available for most TLDs at no cost under DNS settings. Two-factor authentication supports authenticator apps and SMS and is required for Registry Lock domains. Domain Lock prevents unauthorized transfers and is enabled by default.

Best practices: use a strong unique password, enable two-factor authentication, keep WHOIS contact emails current, review domain settings and access logs regularly, and use Registry Lock for mission-critical domains.`,
		},
		{
			Title:    "Compromised Domain Recovery",
			Source:   "kb/abuse-003",
			Category: "Security & Abuse",
			Text: `If your domain was hijacked or compromised, contact support immediately at security@domainregistry.com with the domain name, account email, and proof of ownership, and request an emergency domain lock. Verification requires a government-issued ID matching the WHOIS registrant, a utility bill or bank statement matching the WHOIS address, previous payment receipts, or the original registration confirmation email.

An emergency lock is applied within 2 hours of a verified report. Investigation takes 1-3 business days and recovery, if approved, is immediate. Prevent compromise by never sharing credentials, using unique strong passwords, enabling two-factor authentication, and setting up login notifications.`,
		},
		{
			Title:    "Account Access Issues - Login Problems",
			Source:   "kb/account-001",
			Category: "Account Management",
			Text: `If you forgot your password, click Forgot Password on the login page, enter your registered email, and follow the reset link, which is valid for 24 hours. New passwords need at least 12 characters mixing letters, numbers, and symbols. Five failed attempts lock the account for 15 minutes; repeated lockouts may require support intervention.

If you lost access to your email, contact support with account verification: a government ID plus domain ownership proof, allowing 2-3 business days. If two-factor authentication is lost, use backup codes if available, or contact support with ID verification.`,
		},
		{
			Title:    "Account Closure",
			Source:   "kb/account-002",
			Category: "Account Management",
			Text: `Before closing your account, transfer or cancel all active domains, download any important records and invoices, and clear any outstanding balance. To close, go to Account Settings and Close Account, then confirm with your password.

Account history is retained for 7 years as a legal requirement. A closed account can be reopened within 90 days by contacting support; after 90 days the email address can be reused for a new account. Accounts with unpaid invoices cannot be closed.`,
		},
		{
			Title:    "FAQ: Domain Registration",
			Source:   "kb/faq-001",
			Category: "FAQ",
			Text: `Domain registrations are available from 1-10 years; longer terms provide cost savings and protect against price increases. Domain names are first-come, first-served, but names matching trademarked terms may be challenged, some TLDs have eligibility requirements, and premium domains carry higher pricing.

If someone else holds the domain you want, set up a backorder notification for when it expires, make an offer through the brokerage service, or try alternative TLDs. To protect a brand, register common TLD variations, consider defensive registrations of misspellings, and enable domain monitoring for similar registrations.`,
		},
		{
			Title:    "FAQ: Email and Website Issues",
			Source:   "kb/faq-002",
			Category: "FAQ",
			Text: `If your website is not working after registration, the usual causes are DNS propagation (wait 24-48 hours), hosting not configured (ensure A records point to the hosting IP), or a hosting-side issue. If email stopped working, verify MX records, confirm the email provider is active and paid, check the domain has not expired or been suspended, and review recent DNS changes.

A default parking page appears when a domain was just registered and not configured, hosting has lapsed, or DNS records are not set; configure nameservers or DNS records to point at your hosting. Email forwarding rules live under Domain Settings and Email Forwarding.`,
		},
	}
}
