package services

// Services defined in this package:
// - AuthService: registration, login, token refresh, profile
// - CollegeService: college directory and membership
// - CourseService: courses within a college
// - ResourceService: course notes and past papers, with file storage
// - ForumService: realtime college forum (gate, history, sending)
